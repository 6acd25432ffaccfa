package storage

import (
	"context"
	"path/filepath"
	"testing"

	"ppigraph/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SaveGraph_SnapshotSync(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	// Initial snapshot: A-B plus one problem.
	g1 := graph.NewGraph()
	g1.AddInteraction("A", "B", []string{"two hybrid"})
	p1 := []graph.Problem{{Key: "uniprotkb:P1;-;-", Lines: []int{4, 9}}}
	require.NoError(t, store.SaveGraph(ctx, &Run{ID: "run-1", Input: "in.txt"}, g1.Edges(), p1))

	// New snapshot replaces edges, problems and run.
	g2 := graph.NewGraph()
	g2.AddInteraction("C", "B", []string{"two hybrid", "pull down"})
	require.NoError(t, store.SaveGraph(ctx, &Run{ID: "run-2", Input: "in.txt"}, g2.Edges(), nil))

	edges, err := store.LoadEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, g2.Edges(), edges)

	problems, err := store.LoadProblems(ctx)
	require.NoError(t, err)
	assert.Empty(t, problems)

	run, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", run.ID)
	assert.Equal(t, 1, run.Edges)
}

func TestSQLiteStore_LoadEdges_KeyOrder(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	g := graph.NewGraph()
	g.AddInteraction("AB", "C", nil)
	g.AddInteraction("A", "Z", []string{"m"})
	require.NoError(t, store.SaveGraph(ctx, &Run{ID: "r"}, g.Edges(), nil))

	edges, err := store.LoadEdges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "A;Z", edges[0].Key.String())
	assert.Equal(t, "AB;C", edges[1].Key.String())
	assert.Nil(t, edges[1].Methods)
}

func TestSQLiteStore_Problems(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	problems := []graph.Problem{
		{Key: "a;-;-", Lines: []int{2}},
		{Key: "b;-;-", Lines: []int{3, 8}},
	}
	require.NoError(t, store.SaveGraph(ctx, &Run{ID: "r"}, nil, problems))

	loaded, err := store.LoadProblems(ctx)
	require.NoError(t, err)
	assert.Equal(t, problems, loaded)
}

func TestSQLiteStore_LastRunEmpty(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LastRun(context.Background())
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestSQLiteStore_SaveGraphFillsRunCounts(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	g := graph.NewGraph()
	g.AddInteraction("A", "B", nil)
	g.AddInteraction("B", "C", nil)
	problems := []graph.Problem{{Key: "p;-;-", Lines: []int{5}}}

	run := &Run{ID: "r", Input: "in.txt", StartedAt: "2026-01-01T00:00:00Z", Edges: 99, Problems: 99}
	require.NoError(t, store.SaveGraph(ctx, run, g.Edges(), problems))
	assert.Equal(t, 2, run.Edges)
	assert.Equal(t, 1, run.Problems)

	stored, err := store.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run, stored)
}
