package pipeline

import (
	"context"
	"fmt"
	"os"

	"ppigraph/internal/graph"
	"ppigraph/internal/logger"
	"ppigraph/internal/matrix"
	"ppigraph/internal/report"
	"ppigraph/internal/storage"
)

// MatrixPass renders a previously built edge set as a dense matrix. Edges
// come from the SQLite snapshot when DBPath is set, else from EdgeListPath.
type MatrixPass struct {
	EdgeListPath string
	DBPath       string
	MatrixPath   string
	ReportPath   string
}

func (m *MatrixPass) Run(ctx context.Context) (*matrix.Adjacency, error) {
	source := m.EdgeListPath
	if m.DBPath != "" {
		source = m.DBPath
	}
	rep := report.New("matrix", source)

	adj, err := m.run(ctx, rep)
	if m.ReportPath != "" {
		if saveErr := rep.Save(m.ReportPath); saveErr != nil && err == nil {
			err = fmt.Errorf("failed to save run report: %w", saveErr)
		}
	}
	return adj, err
}

func (m *MatrixPass) run(ctx context.Context, rep *report.Report) (*matrix.Adjacency, error) {
	stage := rep.BeginStage("load_edges")
	edges, err := LoadEdges(ctx, m.EdgeListPath, m.DBPath)
	if err != nil {
		stage.Fail(err)
		return nil, err
	}
	stage.Done(map[string]float64{"edges": float64(len(edges))})

	adj := matrix.Build(edges)
	if err := writeMatrix(rep, m.MatrixPath, adj); err != nil {
		return nil, err
	}
	return adj, nil
}

// LoadEdges reads a finalized edge set from the SQLite snapshot at dbPath,
// or from the edge-list file when dbPath is empty.
func LoadEdges(ctx context.Context, edgeListPath, dbPath string) ([]graph.Edge, error) {
	if dbPath != "" {
		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()
		return store.LoadEdges(ctx)
	}

	f, err := os.Open(edgeListPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list: %w", err)
	}
	defer f.Close()
	return graph.ReadEdgeList(f)
}

func writeMatrix(rep *report.Report, path string, adj *matrix.Adjacency) error {
	stage := rep.BeginStage("matrix")
	err := writeFile(path, func(f *os.File) error {
		_, err := adj.WriteTo(f)
		return err
	})
	if err != nil {
		err = fmt.Errorf("failed to write matrix: %w", err)
		stage.Fail(err)
		return err
	}
	stage.Done(map[string]float64{
		"size": float64(adj.Size()),
		"ones": float64(adj.Ones()),
	}, path)
	logger.Info("matrix written", "path", path, "interactions_x2", adj.Ones(), "shape", fmt.Sprintf("%dx%d", adj.Size(), adj.Size()))
	return nil
}
