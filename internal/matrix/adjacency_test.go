package matrix

import (
	"bytes"
	"strings"
	"testing"

	"ppigraph/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edges(pairs ...[2]string) []graph.Edge {
	g := graph.NewGraph()
	for _, p := range pairs {
		g.AddInteraction(p[0], p[1], []string{"two hybrid"})
	}
	return g.Edges()
}

func TestBuild_SymmetricOverSortedVocabulary(t *testing.T) {
	a := Build(edges([2]string{"SH3KBP1", "SEPT6"}, [2]string{"TP53", "MDM2"}, [2]string{"TP53", "SEPT6"}))

	assert.Equal(t, []string{"MDM2", "SEPT6", "SH3KBP1", "TP53"}, a.Labels())
	for _, r := range a.Labels() {
		for _, c := range a.Labels() {
			rc, err := a.at(r, c)
			require.NoError(t, err)
			cr, err := a.at(c, r)
			require.NoError(t, err)
			assert.Equal(t, rc, cr, "%s/%s", r, c)
		}
	}

	v, err := a.at("SEPT6", "SH3KBP1")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = a.at("MDM2", "SH3KBP1")
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Equal(t, 6, a.Ones())
}

func TestBuild_SelfLoopSetsDiagonal(t *testing.T) {
	a := Build(edges([2]string{"TP53", "TP53"}, [2]string{"TP53", "MDM2"}))

	v, err := a.at("TP53", "TP53")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = a.at("MDM2", "MDM2")
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestAt_UnknownSymbol(t *testing.T) {
	a := Build(edges([2]string{"A", "B"}))
	_, err := a.at("A", "C")
	assert.ErrorIs(t, err, errUnknownSymbol)
}

func TestWriteTo(t *testing.T) {
	a := Build(edges([2]string{"SH3KBP1", "SEPT6"}))

	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t,
		"\t\"SEPT6\"\t\"SH3KBP1\"\n"+
			"\"SEPT6\"\t0\t1\n"+
			"\"SH3KBP1\"\t1\t0\n",
		buf.String())

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Len(t, strings.Split(line, "\t"), a.Size()+1, "rectangular")
	}
}

func TestBuild_Empty(t *testing.T) {
	a := Build(nil)
	assert.Zero(t, a.Size())

	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "\n", buf.String())
}

func TestWriteTo_Deterministic(t *testing.T) {
	in := edges([2]string{"B", "A"}, [2]string{"C", "A"}, [2]string{"C", "B"})

	var first, second bytes.Buffer
	_, err := Build(in).WriteTo(&first)
	require.NoError(t, err)
	_, err = Build(in).WriteTo(&second)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())
}
