package pipeline

import (
	"context"
	"fmt"

	"ppigraph/internal/graph"
	"ppigraph/internal/storage"
)

// Snapshot is what the SQLite store currently holds.
type Snapshot struct {
	Run      *storage.Run
	Problems []graph.Problem
}

// Status reads the last persisted run and its problem log. It returns
// storage.ErrNoRun when nothing has been saved to dbPath yet.
func Status(ctx context.Context, dbPath string) (*Snapshot, error) {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	run, err := store.LastRun(ctx)
	if err != nil {
		return nil, err
	}
	problems, err := store.LoadProblems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}
	return &Snapshot{Run: run, Problems: problems}, nil
}
