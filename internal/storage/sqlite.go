package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ppigraph/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoRun is returned by LastRun when nothing has been saved yet.
var ErrNoRun = errors.New("storage: no run recorded")

const methodSeparator = "|"

type SQLiteStore struct {
	db *sql.DB
}

var _ GraphStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT,
			started_at TEXT,
			edge_count INTEGER,
			problem_count INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			gene_a TEXT,
			gene_b TEXT,
			methods TEXT,
			PRIMARY KEY (gene_a, gene_b)
		);`,
		`CREATE TABLE IF NOT EXISTS problems (
			key TEXT,
			line INTEGER,
			PRIMARY KEY (key, line)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_gene_b ON edges(gene_b);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveGraph(ctx context.Context, run *Run, edges []graph.Edge, problems []graph.Problem) error {
	run.Edges = len(edges)
	run.Problems = len(problems)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Snapshot semantics: the latest run replaces the previous one.
	for _, q := range []string{"DELETE FROM edges", "DELETE FROM problems", "DELETE FROM runs"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}
	}

	// 1. Save Edges
	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (gene_a, gene_b, methods) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		if _, err := edgeStmt.ExecContext(ctx, e.Key.A, e.Key.B, strings.Join(e.Methods, methodSeparator)); err != nil {
			return fmt.Errorf("failed to save edge %s: %w", e.Key, err)
		}
	}

	// 2. Save Problems
	problemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO problems (key, line) VALUES (?, ?)
		ON CONFLICT(key, line) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer problemStmt.Close()

	for _, p := range problems {
		for _, line := range p.Lines {
			if _, err := problemStmt.ExecContext(ctx, p.Key, line); err != nil {
				return fmt.Errorf("failed to save problem %q: %w", p.Key, err)
			}
		}
	}

	// 3. Record the run
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, started_at, edge_count, problem_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.StartedAt, run.Edges, run.Problems); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadEdges(ctx context.Context) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT gene_a, gene_b, methods FROM edges")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var a, b, methods string
		if err := rows.Scan(&a, &b, &methods); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		var list []string
		if methods != "" {
			list = strings.Split(methods, methodSeparator)
		}
		edges = append(edges, graph.Edge{Key: graph.NewEdgeKey(a, b), Methods: list})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// SQLite collation differs from the key's string order around the separator.
	graph.SortEdges(edges)
	return edges, nil
}

func (s *SQLiteStore) LoadProblems(ctx context.Context) ([]graph.Problem, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, line FROM problems ORDER BY key, line")
	if err != nil {
		return nil, fmt.Errorf("failed to query problems: %w", err)
	}
	defer rows.Close()

	var problems []graph.Problem
	for rows.Next() {
		var key string
		var line int
		if err := rows.Scan(&key, &line); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		if n := len(problems); n > 0 && problems[n-1].Key == key {
			problems[n-1].Lines = append(problems[n-1].Lines, line)
			continue
		}
		problems = append(problems, graph.Problem{Key: key, Lines: []int{line}})
	}
	return problems, rows.Err()
}

func (s *SQLiteStore) LastRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, input, started_at, edge_count, problem_count FROM runs LIMIT 1")

	var r Run
	if err := row.Scan(&r.ID, &r.Input, &r.StartedAt, &r.Edges, &r.Problems); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRun
		}
		return nil, err
	}
	return &r, nil
}
