// Package matrix renders an edge set as a dense, symmetric 0/1 adjacency matrix.
package matrix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"ppigraph/internal/graph"
)

// errUnknownSymbol indicates a lookup for a symbol outside the vocabulary.
var errUnknownSymbol = errors.New("matrix: symbol not in vocabulary")

// Adjacency is a square matrix over a sorted symbol vocabulary.
// Cells are stored row-major in a flat slice of length n*n.
type Adjacency struct {
	labels []string
	index  map[string]int
	cells  []uint8
}

// Build derives the vocabulary from both endpoints of every edge and sets
// [i][j] and [j][i] for each edge. Self-loops set the diagonal cell.
func Build(edges []graph.Edge) *Adjacency {
	g := graph.FromEdges(edges)
	labels := g.Symbols()

	index := make(map[string]int, len(labels))
	for i, s := range labels {
		index[s] = i
	}

	n := len(labels)
	a := &Adjacency{labels: labels, index: index, cells: make([]uint8, n*n)}
	for _, e := range g.Edges() {
		i, j := index[e.Key.A], index[e.Key.B]
		a.cells[i*n+j] = 1
		a.cells[j*n+i] = 1
	}
	return a
}

// Size returns the number of rows (and columns).
func (a *Adjacency) Size() int { return len(a.labels) }

// Labels returns the row and column labels in order.
func (a *Adjacency) Labels() []string { return a.labels }

// at returns the cell for the pair of symbols.
func (a *Adjacency) at(row, col string) (int, error) {
	i, ok := a.index[row]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errUnknownSymbol, row)
	}
	j, ok := a.index[col]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errUnknownSymbol, col)
	}
	return int(a.cells[i*len(a.labels)+j]), nil
}

// Ones counts set cells; an undirected edge counts twice, a self-loop once.
func (a *Adjacency) Ones() int {
	n := 0
	for _, v := range a.cells {
		n += int(v)
	}
	return n
}

// WriteTo serializes the matrix as tab-separated text. The first row is an
// empty corner cell followed by the quoted column labels; every following row
// starts with its quoted label and carries integer cells.
func (a *Adjacency) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriterSize(w, 1<<20)}
	n := len(a.labels)

	for _, l := range a.labels {
		cw.writeString("\t")
		cw.writeString(strconv.Quote(l))
	}
	cw.writeString("\n")

	row := make([]byte, 0, 2*n)
	for i, l := range a.labels {
		cw.writeString(strconv.Quote(l))
		row = row[:0]
		for _, v := range a.cells[i*n : (i+1)*n] {
			row = append(row, '\t', '0'+v)
		}
		row = append(row, '\n')
		cw.write(row)
	}
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) write(p []byte) {
	if c.err != nil {
		return
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
}

func (c *countingWriter) writeString(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}
