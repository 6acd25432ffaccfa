package graph

import (
	"sort"
	"strings"
)

// KeySeparator joins the two symbols of an EdgeKey in its string form.
const KeySeparator = ";"

// EdgeKey is an unordered pair of gene symbols with A <= B.
type EdgeKey struct {
	A, B string
}

// NewEdgeKey orders the pair so that NewEdgeKey(x, y) == NewEdgeKey(y, x).
func NewEdgeKey(x, y string) EdgeKey {
	if y < x {
		x, y = y, x
	}
	return EdgeKey{A: x, B: y}
}

func (k EdgeKey) String() string {
	return k.A + KeySeparator + k.B
}

// IsSelfLoop reports whether both ends resolved to the same symbol.
func (k EdgeKey) IsSelfLoop() bool {
	return k.A == k.B
}

// Edge is a finalized graph entry.
type Edge struct {
	Key     EdgeKey
	Methods []string // sorted
}

// Graph is an undirected gene interaction graph where each edge carries the
// union of detection methods seen for it.
type Graph struct {
	edges   map[EdgeKey]map[string]struct{}
	symbols map[string]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		edges:   make(map[EdgeKey]map[string]struct{}),
		symbols: make(map[string]struct{}),
	}
}

// FromEdges rebuilds a graph from finalized edges.
func FromEdges(edges []Edge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.AddInteraction(e.Key.A, e.Key.B, e.Methods)
	}
	return g
}

// AddInteraction creates the edge {a, b} if needed and unions methods into
// its method set. Adding known methods again leaves the set unchanged.
func (g *Graph) AddInteraction(a, b string, methods []string) EdgeKey {
	key := NewEdgeKey(a, b)
	set, ok := g.edges[key]
	if !ok {
		set = make(map[string]struct{}, len(methods))
		g.edges[key] = set
		g.symbols[key.A] = struct{}{}
		g.symbols[key.B] = struct{}{}
	}
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return key
}

// Len returns the number of distinct edges.
func (g *Graph) Len() int {
	return len(g.edges)
}

// Has reports whether {a, b} is an edge.
func (g *Graph) Has(a, b string) bool {
	_, ok := g.edges[NewEdgeKey(a, b)]
	return ok
}

// Methods returns the sorted method set of {a, b}, or nil if there is no such edge.
func (g *Graph) Methods(a, b string) []string {
	set, ok := g.edges[NewEdgeKey(a, b)]
	if !ok {
		return nil
	}
	return sortedKeys(set)
}

// Edges returns every edge ordered by the string form of its key.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for key, set := range g.edges {
		out = append(out, Edge{Key: key, Methods: sortedKeys(set)})
	}
	SortEdges(out)
	return out
}

// Symbols returns the sorted vocabulary of edge endpoints.
func (g *Graph) Symbols() []string {
	return sortedKeys(g.symbols)
}

// SelfLoops returns the sorted keys whose endpoints are the same symbol.
func (g *Graph) SelfLoops() []EdgeKey {
	var out []EdgeKey
	for key := range g.edges {
		if key.IsSelfLoop() {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// SortEdges orders edges by the string form of their keys.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		return strings.Compare(edges[i].Key.String(), edges[j].Key.String()) < 0
	})
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
