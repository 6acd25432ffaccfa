package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEdgeKey_Unordered(t *testing.T) {
	assert.Equal(t, NewEdgeKey("SEPT6", "SH3KBP1"), NewEdgeKey("SH3KBP1", "SEPT6"))
	assert.Equal(t, "SEPT6;SH3KBP1", NewEdgeKey("SH3KBP1", "SEPT6").String())
	assert.True(t, NewEdgeKey("TP53", "TP53").IsSelfLoop())
}

func TestGraph_AddInteraction(t *testing.T) {
	g := NewGraph()

	t.Run("Reversed pairs merge into one edge", func(t *testing.T) {
		g.AddInteraction("X", "Y", []string{"two hybrid"})
		g.AddInteraction("Y", "X", []string{"affinity chromatography technology"})

		assert.Equal(t, 1, g.Len())
		assert.Equal(t, []string{"affinity chromatography technology", "two hybrid"}, g.Methods("X", "Y"))
	})

	t.Run("Union is idempotent", func(t *testing.T) {
		before := g.Methods("X", "Y")
		g.AddInteraction("X", "Y", []string{"two hybrid"})
		assert.Equal(t, before, g.Methods("Y", "X"))
	})

	t.Run("Edge without methods still exists", func(t *testing.T) {
		g.AddInteraction("A", "B", nil)
		assert.True(t, g.Has("B", "A"))
		assert.Empty(t, g.Methods("A", "B"))
	})
}

func TestGraph_EdgesSortedByKey(t *testing.T) {
	g := NewGraph()
	g.AddInteraction("AB", "C", []string{"m"})
	g.AddInteraction("B", "A", []string{"m"})
	g.AddInteraction("Z", "A", []string{"m"})

	var keys []string
	for _, e := range g.Edges() {
		keys = append(keys, e.Key.String())
	}
	assert.Equal(t, []string{"A;B", "A;Z", "AB;C"}, keys)
	assert.Equal(t, []string{"A", "AB", "B", "C", "Z"}, g.Symbols())
}

func TestGraph_SelfLoops(t *testing.T) {
	g := NewGraph()
	g.AddInteraction("TP53", "TP53", []string{"m"})
	g.AddInteraction("TP53", "MDM2", []string{"m"})

	assert.Equal(t, []EdgeKey{{A: "TP53", B: "TP53"}}, g.SelfLoops())
}

func TestProblemLog(t *testing.T) {
	p := NewProblemLog()
	p.Add("b;x;-", 7)
	p.Add("a;y;-", 3)
	p.Add("b;x;-", 2)
	p.Add("b;x;-", 7)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 3, p.LineCount())
	assert.Equal(t, []Problem{
		{Key: "a;y;-", Lines: []int{3}},
		{Key: "b;x;-", Lines: []int{2, 7}},
	}, p.Entries())
}

func TestEdgeList_WriteRead(t *testing.T) {
	g := NewGraph()
	g.AddInteraction("SH3KBP1", "SEPT6", []string{"affinity chromatography technology"})
	g.AddInteraction("TP53", "MDM2", []string{"two hybrid", "pull down"})

	var buf bytes.Buffer
	require.NoError(t, WriteEdgeList(&buf, g.Edges()))
	assert.Equal(t,
		"Gene A\tGene B\tInteraction Methods\n"+
			"MDM2\tTP53\tpull down|two hybrid\n"+
			"SEPT6\tSH3KBP1\taffinity chromatography technology\n",
		buf.String())

	edges, err := ReadEdgeList(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(), edges)
}

func TestReadEdgeList_Errors(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEdgeListHeader)

	_, err = ReadEdgeList(strings.NewReader("Gene1\tGene2\n"))
	assert.ErrorIs(t, err, ErrEdgeListHeader)

	_, err = ReadEdgeList(strings.NewReader(EdgeListHeader + "\nA\tB\n"))
	assert.ErrorIs(t, err, ErrMalformedEdge)
}

func TestFromEdges(t *testing.T) {
	edges := []Edge{{Key: NewEdgeKey("A", "B"), Methods: []string{"m1"}}}
	g := FromEdges(edges)
	assert.Equal(t, edges, g.Edges())
}

func TestReadEdgeList_LongMethodList(t *testing.T) {
	methods := strings.Repeat("m", 17<<20)
	input := EdgeListHeader + "\r\nA\tB\t" + methods + "\r\nC\tD\tx"

	edges, err := ReadEdgeList(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Len(t, edges[0].Methods[0], len(methods))
	assert.Equal(t, []string{"x"}, edges[1].Methods)
}
