package storage

import (
	"context"

	"ppigraph/internal/graph"
)

// Run identifies one persisted build. Edges and Problems are the stored
// counts; SaveGraph sets them from the slices it writes.
type Run struct {
	ID        string
	Input     string
	StartedAt string
	Edges     int
	Problems  int
}

// GraphStore persists finalized builds.
type GraphStore interface {
	// SaveGraph replaces the stored snapshot with the given run's edges and
	// problems and fills in run's counts.
	SaveGraph(ctx context.Context, run *Run, edges []graph.Edge, problems []graph.Problem) error

	// LoadEdges returns the stored edges ordered by key.
	LoadEdges(ctx context.Context) ([]graph.Edge, error)

	// LoadProblems returns the stored problem log ordered by key.
	LoadProblems(ctx context.Context) ([]graph.Problem, error)

	// LastRun returns the run that produced the current snapshot.
	LastRun(ctx context.Context) (*Run, error)

	Close() error
}
