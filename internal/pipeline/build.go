package pipeline

import (
	"context"
	"fmt"
	"os"

	"ppigraph/internal/config"
	"ppigraph/internal/crawler"
	"ppigraph/internal/graph"
	"ppigraph/internal/index"
	"ppigraph/internal/logger"
	"ppigraph/internal/matrix"
	"ppigraph/internal/mitab"
	"ppigraph/internal/report"
	"ppigraph/internal/resolver"
	"ppigraph/internal/storage"
	"ppigraph/internal/symbols"
)

// Build runs the full transform: MITAB input to edge list, matrix, report
// and optional SQLite snapshot.
type Build struct {
	InputPath     string
	SymbolsPath   string
	EdgeListPath  string
	MatrixPath    string
	ReportPath    string
	DBPath        string
	TargetTaxon   string
	AllowFallback bool
	SkipMatrix    bool

	// Table overrides SymbolsPath when set.
	Table resolver.SymbolTable
}

func NewBuild(cfg *config.Config) *Build {
	return &Build{
		InputPath:     cfg.Input.Path,
		SymbolsPath:   cfg.Symbols.Path,
		EdgeListPath:  cfg.Output.EdgeList,
		MatrixPath:    cfg.Output.Matrix,
		ReportPath:    cfg.Output.Report,
		DBPath:        cfg.Store.Path,
		TargetTaxon:   cfg.Input.TargetTaxon,
		AllowFallback: cfg.Symbols.AllowFallback,
	}
}

func (b *Build) Run(ctx context.Context) (*index.Result, error) {
	rep := report.New("build", b.InputPath)

	res, err := b.run(ctx, rep)
	if res != nil {
		b.recordResult(rep, res)
	}
	if b.ReportPath != "" {
		if saveErr := rep.Save(b.ReportPath); saveErr != nil {
			logger.Error("failed to save run report", "path", b.ReportPath, "err", saveErr)
			if err == nil {
				err = fmt.Errorf("failed to save run report: %w", saveErr)
			}
		} else {
			logger.Info("run report written", "path", b.ReportPath, "run_id", rep.RunID)
		}
	}
	return res, err
}

func (b *Build) run(ctx context.Context, rep *report.Report) (*index.Result, error) {
	table, err := b.loadSymbolsStage(rep)
	if err != nil {
		return nil, err
	}

	res, err := b.scanStage(rep, table)
	if err != nil {
		return nil, err
	}

	if err := b.edgeListStage(rep, res.Edges); err != nil {
		return res, err
	}

	if b.SkipMatrix || b.MatrixPath == "" {
		rep.BeginStage("matrix").Skip()
	} else if err := writeMatrix(rep, b.MatrixPath, matrix.Build(res.Edges)); err != nil {
		return res, err
	}

	if b.DBPath != "" {
		if err := b.persistStage(ctx, rep, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (b *Build) loadSymbolsStage(rep *report.Report) (resolver.SymbolTable, error) {
	if b.Table != nil {
		return b.Table, nil
	}
	stage := rep.BeginStage("symbols")
	table, err := symbols.LoadFile(b.SymbolsPath)
	if err != nil {
		stage.Fail(err)
		return nil, err
	}
	stage.Done(map[string]float64{"official_symbols": float64(table.Len())})
	logger.Info("symbol table loaded", "path", b.SymbolsPath, "official", table.Len())
	return table, nil
}

func (b *Build) scanStage(rep *report.Report, table resolver.SymbolTable) (*index.Result, error) {
	stage := rep.BeginStage("scan")
	logger.Info("scanning interactions", "input", b.InputPath, "taxon", b.TargetTaxon, "fallback", b.AllowFallback)

	f, err := os.Open(b.InputPath)
	if err != nil {
		err = fmt.Errorf("failed to open input: %w", err)
		stage.Fail(err)
		return nil, err
	}
	defer f.Close()

	chain := resolver.NewDefaultChain(table)
	idx := index.NewIndexer(chain, index.Options{
		TargetTaxon:   b.TargetTaxon,
		AllowFallback: b.AllowFallback,
	})
	res, err := idx.BuildGraph(crawler.NewCrawler(), f)
	if err != nil {
		stage.Fail(err)
		return nil, err
	}
	logSummary(res, chain.Names())

	s := res.Stats
	stage.Done(map[string]float64{
		"lines_read":         float64(s.LinesRead),
		"malformed":          float64(s.Malformed),
		"not_target_species": float64(s.NotTargetSpecies),
		"unresolved_records": float64(s.UnresolvedRecords),
		"edges":              float64(s.Edges),
	})
	return res, nil
}

func (b *Build) edgeListStage(rep *report.Report, edges []graph.Edge) error {
	stage := rep.BeginStage("edge_list")
	err := writeFile(b.EdgeListPath, func(f *os.File) error {
		return graph.WriteEdgeList(f, edges)
	})
	if err != nil {
		err = fmt.Errorf("failed to write edge list: %w", err)
		stage.Fail(err)
		return err
	}
	stage.Done(map[string]float64{"rows": float64(len(edges))}, b.EdgeListPath)
	logger.Info("edge list written", "path", b.EdgeListPath, "rows", len(edges))
	return nil
}

func (b *Build) persistStage(ctx context.Context, rep *report.Report, res *index.Result) error {
	stage := rep.BeginStage("persist")
	store, err := storage.NewSQLiteStore(b.DBPath)
	if err != nil {
		err = fmt.Errorf("failed to initialize database: %w", err)
		stage.Fail(err)
		return err
	}
	defer store.Close()

	run := &storage.Run{ID: rep.RunID, Input: b.InputPath, StartedAt: rep.GeneratedAt}
	if err := store.SaveGraph(ctx, run, res.Edges, res.Problems); err != nil {
		err = fmt.Errorf("failed to save graph: %w", err)
		stage.Fail(err)
		return err
	}
	stage.Done(map[string]float64{
		"edges":    float64(run.Edges),
		"problems": float64(run.Problems),
	}, b.DBPath)
	logger.Info("graph saved", "db", b.DBPath, "run_id", run.ID, "edges", run.Edges, "problems", run.Problems)
	return nil
}

func (b *Build) recordResult(rep *report.Report, res *index.Result) {
	s := res.Stats
	rep.SetCounters(map[string]int{
		"lines_read":         s.LinesRead,
		"malformed":          s.Malformed,
		"not_target_species": s.NotTargetSpecies,
		"unresolved_records": s.UnresolvedRecords,
		"unresolved_sides":   s.UnresolvedSides,
		"edges":              s.Edges,
		"unique_symbols":     s.UniqueSymbols,
		"problem_symbols":    s.ProblemSymbols,
		"problem_lines":      s.ProblemLines,
		"self_loops":         s.SelfLoops,
	}, s.StrategyHits)

	for _, p := range res.Problems {
		rep.AddProblem(p.Key, p.Lines)
	}
	for _, key := range res.SelfLoops {
		rep.AddSignal("self_loop", "scan", report.SeverityWarning,
			fmt.Sprintf("both interactors resolved to %s", key.A), 1)
	}
	if s.Malformed > 0 {
		rep.AddSignal("malformed_lines", "scan", report.SeverityWarning,
			fmt.Sprintf("%d lines did not have %d columns", s.Malformed, mitab.ColumnCount), float64(s.Malformed))
	}
	if considered := s.LinesRead - s.Malformed - s.NotTargetSpecies; considered > 0 && s.UnresolvedRecords > 0 {
		rep.AddSignal("unresolved_ratio", "scan", report.SeverityInfo,
			fmt.Sprintf("%d of %d target-species records had an unresolved interactor", s.UnresolvedRecords, considered),
			float64(s.UnresolvedRecords)/float64(considered))
	}
}

// logSummary logs the run totals, then per-strategy hits in chain order.
func logSummary(res *index.Result, strategies []string) {
	s := res.Stats
	logger.Info("build complete",
		"lines_read", s.LinesRead,
		"ppi", s.Edges,
		"not_target_species", s.NotTargetSpecies,
		"malformed", s.Malformed,
		"unique_symbols", s.UniqueSymbols,
		"problem_symbols", s.ProblemSymbols,
		"problem_ppi", s.ProblemLines,
		"unresolved_sides", s.UnresolvedSides,
	)
	for _, name := range strategies {
		logger.Debug("resolution strategy", "name", name, "hits", s.StrategyHits[name])
	}
	for _, key := range res.SelfLoops {
		logger.Warn("self-loop edge kept", "symbol", key.A)
	}
	if logger.DebugEnabled() {
		for _, p := range res.Problems {
			logger.Debug("problem symbol", "key", p.Key, "lines", p.Lines)
		}
	}
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
