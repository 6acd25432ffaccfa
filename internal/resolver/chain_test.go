package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	official   map[string]bool
	accessions map[string]string
	synonyms   map[string]string
}

func (f fakeTable) IsOfficial(s string) bool { return f.official[s] }

func (f fakeTable) SymbolForAccession(acc string) (string, bool) {
	s, ok := f.accessions[acc]
	return s, ok
}

func (f fakeTable) Find(name string) (string, bool) {
	if f.official[name] {
		return name, true
	}
	s, ok := f.synonyms[name]
	return s, ok
}

func newFakeTable() fakeTable {
	return fakeTable{
		official: map[string]bool{
			"SEPT6": true, "SH3KBP1": true, "FOO": true, "BAR": true, "TP53": true,
		},
		accessions: map[string]string{
			"Q14141": "SEPT6",
			"Q96B97": "SH3KBP1",
		},
		synonyms: map[string]string{
			"P53":      "TP53",
			"OLDBAR":   "BAR",
			"ALIASFOO": "FOO",
		},
	}
}

func TestExtractIdentifier(t *testing.T) {
	id := ExtractIdentifier("uniprotkb:Q14141", "uniprotkb:SEPT6(gene name)", "-")
	assert.Equal(t, Identifier{Accession: "Q14141", EmbeddedName: "SEPT6"}, id)

	id = ExtractIdentifier("entrez gene:7157", "intact:EBI-366083", "None")
	assert.Equal(t, Identifier{}, id)

	id = ExtractIdentifier("-", "-", "p53")
	assert.Equal(t, Identifier{Alias: "p53"}, id)
}

func TestChain_AccessionOutranksAlias(t *testing.T) {
	chain := NewDefaultChain(newFakeTable())

	res, ok := chain.Resolve(ExtractIdentifier("uniprotkb:Q14141", "-", "FOO"), true)
	require.True(t, ok)
	assert.Equal(t, "SEPT6", res.Symbol)
	assert.Equal(t, "accession", res.Strategy)
}

func TestChain_PriorityOrder(t *testing.T) {
	chain := NewDefaultChain(newFakeTable())

	tests := []struct {
		name     string
		id       Identifier
		symbol   string
		strategy string
	}{
		{"official embedded name beats official alias", Identifier{EmbeddedName: "BAR", Alias: "FOO"}, "BAR", "official_name"},
		{"official alias beats synonym of name", Identifier{EmbeddedName: "P53", Alias: "FOO"}, "FOO", "official_alias"},
		{"synonym of name beats synonym of alias", Identifier{EmbeddedName: "P53", Alias: "OLDBAR"}, "TP53", "find_name"},
		{"synonym of alias", Identifier{EmbeddedName: "XYZ1", Alias: "ALIASFOO"}, "FOO", "find_alias"},
		{"unknown accession falls through", Identifier{Accession: "P00000", EmbeddedName: "TP53"}, "TP53", "official_name"},
		{"fallback to embedded name", Identifier{EmbeddedName: "XYZ1", Alias: "NOPE"}, "XYZ1", "fallback_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := chain.Resolve(tt.id, true)
			require.True(t, ok)
			assert.Equal(t, tt.symbol, res.Symbol)
			assert.Equal(t, tt.strategy, res.Strategy)
		})
	}
}

func TestChain_FallbackGating(t *testing.T) {
	chain := NewDefaultChain(newFakeTable())

	res, ok := chain.Resolve(ExtractIdentifier("-", "uniprotkb:XYZ1(gene name)", "-"), true)
	require.True(t, ok)
	assert.Equal(t, Resolution{Symbol: "XYZ1", Strategy: "fallback_name"}, res)

	_, ok = chain.Resolve(ExtractIdentifier("-", "uniprotkb:XYZ1(gene name)", "-"), false)
	assert.False(t, ok)
}

func TestChain_FallbackNeverUsesAlias(t *testing.T) {
	chain := NewDefaultChain(newFakeTable())

	_, ok := chain.Resolve(Identifier{Alias: "UNKNOWNALIAS"}, true)
	assert.False(t, ok)
}

func TestChain_NoInputResolvesNothing(t *testing.T) {
	chain := NewDefaultChain(newFakeTable())

	_, ok := chain.Resolve(ExtractIdentifier("-", "-", "-"), true)
	assert.False(t, ok)
}

func TestChain_Names(t *testing.T) {
	chain := NewDefaultChain(newFakeTable())
	assert.Equal(t,
		[]string{"accession", "official_name", "official_alias", "find_name", "find_alias", "fallback_name"},
		chain.Names())
}

func TestTally_Record(t *testing.T) {
	tally := NewTally()
	tally.Record(Resolution{Symbol: "A", Strategy: "accession"}, true)
	tally.Record(Resolution{Symbol: "B", Strategy: "accession"}, true)
	tally.Record(Resolution{}, false)

	assert.Equal(t, 2, tally.Hits["accession"])
	assert.Equal(t, 1, tally.Misses)
}
