package index

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"ppigraph/internal/crawler"
	"ppigraph/internal/graph"
	"ppigraph/internal/logger"
	"ppigraph/internal/mitab"
	"ppigraph/internal/resolver"
)

var (
	ErrNotTargetSpecies     = errors.New("index: interactors are not both of the target species")
	ErrUnresolvedIdentifier = errors.New("index: identifier did not resolve to a gene symbol")
)

// Options controls record acceptance and symbol resolution.
type Options struct {
	// TargetTaxon is a numeric taxid or a full "taxid:<n>(<name>)" tag.
	TargetTaxon   string
	AllowFallback bool
}

// Stats summarizes one build. UnresolvedSides counts interactors the chain
// could not resolve, so a record failing on both sides counts twice.
type Stats struct {
	LinesRead         int            `json:"lines_read"`
	Malformed         int            `json:"malformed"`
	NotTargetSpecies  int            `json:"not_target_species"`
	UnresolvedRecords int            `json:"unresolved_records"`
	UnresolvedSides   int            `json:"unresolved_sides"`
	Edges             int            `json:"edges"`
	UniqueSymbols     int            `json:"unique_symbols"`
	ProblemSymbols    int            `json:"problem_symbols"`
	ProblemLines      int            `json:"problem_lines"`
	SelfLoops         int            `json:"self_loops"`
	StrategyHits      map[string]int `json:"strategy_hits"`
}

// Result is the finalized output of a build.
type Result struct {
	Edges     []graph.Edge
	Problems  []graph.Problem
	SelfLoops []graph.EdgeKey
	Stats     Stats
}

// Indexer resolves interaction records and accumulates them into a graph
// and a problem log. It owns both accumulators.
type Indexer struct {
	chain  *resolver.Chain
	opts   Options
	target string

	graph    *graph.Graph
	problems *graph.ProblemLog
	symbols  map[string]struct{}
	tally    *resolver.Tally
	stats    Stats
}

// NewIndexer creates an indexer with empty accumulators.
func NewIndexer(chain *resolver.Chain, opts Options) *Indexer {
	target := strings.TrimSpace(opts.TargetTaxon)
	if strings.HasPrefix(target, "taxid:") {
		target = mitab.TaxonID(target)
	}
	return &Indexer{
		chain:    chain,
		opts:     opts,
		target:   target,
		graph:    graph.NewGraph(),
		problems: graph.NewProblemLog(),
		symbols:  make(map[string]struct{}),
		tally:    resolver.NewTally(),
	}
}

// Accepts reports whether both interactors carry the target taxon.
func (i *Indexer) Accepts(rec *mitab.Record) bool {
	return rec.A.Taxon != "" && rec.A.Taxon == rec.B.Taxon && rec.A.Taxon == i.target
}

// Ingest adds one record read from the given input line. Rejected records
// return ErrNotTargetSpecies or ErrUnresolvedIdentifier; both are recoverable
// and already accounted for in the indexer's stats.
func (i *Indexer) Ingest(line int, rec *mitab.Record) error {
	if !i.Accepts(rec) {
		i.stats.NotTargetSpecies++
		return ErrNotTargetSpecies
	}

	symA, okA := i.resolve(rec.A)
	symB, okB := i.resolve(rec.B)

	var unresolved []string
	if !okA {
		i.problems.Add(rec.A.Key(), line)
		unresolved = append(unresolved, rec.A.Key())
	}
	if !okB {
		i.problems.Add(rec.B.Key(), line)
		unresolved = append(unresolved, rec.B.Key())
	}
	if len(unresolved) > 0 {
		i.stats.UnresolvedRecords++
		return fmt.Errorf("%w: %s", ErrUnresolvedIdentifier, strings.Join(unresolved, ", "))
	}

	i.graph.AddInteraction(symA, symB, rec.DetectionMethods)
	return nil
}

func (i *Indexer) resolve(side mitab.Interactor) (string, bool) {
	res, ok := i.chain.Resolve(side.ID, i.opts.AllowFallback)
	i.tally.Record(res, ok)
	if ok {
		i.symbols[res.Symbol] = struct{}{}
	}
	return res.Symbol, ok
}

// Finalize returns the sorted edges, problems and counters gathered so far.
func (i *Indexer) Finalize() *Result {
	stats := i.stats
	stats.Edges = i.graph.Len()
	stats.UniqueSymbols = len(i.symbols)
	stats.ProblemSymbols = i.problems.Len()
	stats.ProblemLines = i.problems.LineCount()
	stats.UnresolvedSides = i.tally.Misses
	stats.StrategyHits = make(map[string]int, len(i.tally.Hits))
	for k, v := range i.tally.Hits {
		stats.StrategyHits[k] = v
	}

	selfLoops := i.graph.SelfLoops()
	stats.SelfLoops = len(selfLoops)

	return &Result{
		Edges:     i.graph.Edges(),
		Problems:  i.problems.Entries(),
		SelfLoops: selfLoops,
		Stats:     stats,
	}
}

// BuildGraph scans a MITAB stream and returns the finalized result. Only a
// header mismatch or a read failure aborts the build.
func (i *Indexer) BuildGraph(c *crawler.Crawler, r io.Reader) (*Result, error) {
	scan, err := c.Scan(r, func(line int, rec *mitab.Record) {
		if err := i.Ingest(line, rec); err != nil {
			logger.Debug("record dropped", "line", line, "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	i.stats.LinesRead += scan.LinesRead
	i.stats.Malformed += scan.Malformed

	return i.Finalize(), nil
}
