// Package symbols loads the HGNC gene symbol table used to canonicalize
// interactor identifiers.
package symbols

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumn is returned when the table header has no symbol column.
var ErrMissingColumn = errors.New("symbols: missing required column")

// Table is an immutable view of official symbols and their synonyms.
type Table struct {
	official   map[string]bool
	accessions map[string]string
	previous   map[string][]string
	aliases    map[string][]string
}

func newTable() *Table {
	return &Table{
		official:   make(map[string]bool),
		accessions: make(map[string]string),
		previous:   make(map[string][]string),
		aliases:    make(map[string][]string),
	}
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses an HGNC complete-set TSV. Columns are located by header name:
// symbol is required; alias_symbol, prev_symbol, uniprot_ids and status are
// optional. Rows with a status other than "Approved" are skipped.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read symbol table header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	symCol, ok := cols["symbol"]
	if !ok {
		return nil, fmt.Errorf("%w: symbol", ErrMissingColumn)
	}
	col := func(name string) int {
		if i, ok := cols[name]; ok {
			return i
		}
		return -1
	}
	aliasCol, prevCol, uniprotCol, statusCol := col("alias_symbol"), col("prev_symbol"), col("uniprot_ids"), col("status")

	t := newTable()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read symbol table: %w", err)
		}
		sym := strings.TrimSpace(field(row, symCol))
		if sym == "" {
			continue
		}
		if statusCol >= 0 {
			if status := strings.TrimSpace(field(row, statusCol)); status != "" && status != "Approved" {
				continue
			}
		}
		t.official[sym] = true
		for _, acc := range splitMulti(field(row, uniprotCol)) {
			t.accessions[acc] = sym
		}
		for _, p := range splitMulti(field(row, prevCol)) {
			t.previous[p] = appendUnique(t.previous[p], sym)
		}
		for _, a := range splitMulti(field(row, aliasCol)) {
			t.aliases[a] = appendUnique(t.aliases[a], sym)
		}
	}
	return t, nil
}

// Len returns the number of official symbols.
func (t *Table) Len() int { return len(t.official) }

func (t *Table) IsOfficial(symbol string) bool { return t.official[symbol] }

func (t *Table) SymbolForAccession(accession string) (string, bool) {
	sym, ok := t.accessions[accession]
	return sym, ok
}

// Find maps name to an official symbol: the name itself, then a previous
// symbol, then an alias, each only when it points at exactly one official
// symbol. The same lookups are retried on the upper-cased name.
func (t *Table) Find(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if sym, ok := t.lookup(name); ok {
		return sym, true
	}
	if upper := strings.ToUpper(name); upper != name {
		return t.lookup(upper)
	}
	return "", false
}

func (t *Table) lookup(name string) (string, bool) {
	if t.official[name] {
		return name, true
	}
	if syms := t.previous[name]; len(syms) == 1 {
		return syms[0], true
	}
	if syms := t.aliases[name]; len(syms) == 1 {
		return syms[0], true
	}
	return "", false
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func splitMulti(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
