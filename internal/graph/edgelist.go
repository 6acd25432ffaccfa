package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// EdgeListHeader is the first line of an edge-list file.
const EdgeListHeader = "Gene A\tGene B\tInteraction Methods"

const methodSeparator = "|"

var (
	ErrEdgeListHeader = errors.New("graph: unexpected edge list header")
	ErrMalformedEdge  = errors.New("graph: malformed edge list row")
)

// WriteEdgeList writes edges as tab-separated rows in the given order.
func WriteEdgeList(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, EdgeListHeader); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", e.Key.A, e.Key.B, strings.Join(e.Methods, methodSeparator)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadEdgeList parses a file written by WriteEdgeList. Lines have no length
// limit.
func ReadEdgeList(r io.Reader) ([]Edge, error) {
	br := bufio.NewReader(r)

	header, err := readLine(br)
	if err == io.EOF {
		return nil, ErrEdgeListHeader
	}
	if err != nil {
		return nil, err
	}
	if header != EdgeListHeader {
		return nil, ErrEdgeListHeader
	}

	var edges []Edge
	lineNum := 1
	for {
		line, err := readLine(br)
		if err == io.EOF {
			return edges, nil
		}
		if err != nil {
			return nil, err
		}
		lineNum++
		if line == "" {
			continue
		}
		row := strings.Split(line, "\t")
		if len(row) != 3 || row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("%w: line %d", ErrMalformedEdge, lineNum)
		}
		var methods []string
		for _, m := range strings.Split(row[2], methodSeparator) {
			if m != "" {
				methods = append(methods, m)
			}
		}
		edges = append(edges, Edge{Key: NewEdgeKey(row[0], row[1]), Methods: methods})
	}
}

// readLine returns the next line without its terminator, or io.EOF once the
// input is exhausted.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
