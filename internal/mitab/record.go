// Package mitab decodes PSI-MI TAB interaction records as published by PINA.
package mitab

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"ppigraph/internal/resolver"
)

var (
	ErrHeaderMismatch  = errors.New("mitab: header does not match expected schema")
	ErrMalformedRecord = errors.New("mitab: malformed record")
)

// ColumnCount is the number of tab-separated columns in every row.
const ColumnCount = 20

// Header is the exact first line of a supported input file.
var Header = strings.Join([]string{
	`"ID(s) interactor A"`,
	`"ID(s) interactor B"`,
	`"Alt. ID(s) interactor A"`,
	`"Alt. ID(s) interactor B"`,
	`"Alias(es) interactor A"`,
	`"Alias(es) interactor B"`,
	`"Interaction detection method(s)"`,
	`"Publication 1st author(s)"`,
	`"Publication Identifier(s)"`,
	`"Taxid interactor A"`,
	`"Taxid interactor B"`,
	`"Interaction type(s)"`,
	`"Source database(s)"`,
	`"Interaction identifier(s)"`,
	`"Confidence value(s)"`,
	`"Experimental role(s) interactor A"`,
	`"Experimental role(s) interactor B"`,
	`"Properties interactor A"`,
	`"Properties interactor B"`,
	`"HostOrganism(s)"`,
}, "\t")

const (
	colIDA = iota
	colIDB
	colAltIDA
	colAltIDB
	colAliasA
	colAliasB
	colDetectionMethod
	_ // publication 1st author
	_ // publication identifier
	colTaxidA
	colTaxidB
)

var (
	methodPattern = regexp.MustCompile(`^[^(]+\(([^)]+)\)`)
	taxidPattern  = regexp.MustCompile(`^taxid:(-?\d+)`)
)

// Interactor holds one side of a record: the raw identifier columns, the
// extracted identifier triple, and the taxon.
type Interactor struct {
	IDField    string
	AltIDField string
	AliasField string
	TaxonField string

	ID    resolver.Identifier
	Taxon string // numeric taxid, empty when absent
}

// Key is the diagnostic key of the raw identifier columns.
func (i Interactor) Key() string {
	return i.IDField + ";" + i.AltIDField + ";" + i.AliasField
}

// Record is one decoded interaction row.
type Record struct {
	A, B Interactor
	// DetectionMethods holds distinct method labels, sorted.
	DetectionMethods []string
}

// CheckHeader validates the first line of the input.
func CheckHeader(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if line != Header {
		return ErrHeaderMismatch
	}
	return nil
}

// Parse decodes one data line.
func Parse(line string) (*Record, error) {
	row := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(row) != ColumnCount {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedRecord, ColumnCount, len(row))
	}

	return &Record{
		A:                newInteractor(row[colIDA], row[colAltIDA], row[colAliasA], row[colTaxidA]),
		B:                newInteractor(row[colIDB], row[colAltIDB], row[colAliasB], row[colTaxidB]),
		DetectionMethods: DetectionMethods(row[colDetectionMethod]),
	}, nil
}

func newInteractor(id, altID, alias, taxon string) Interactor {
	return Interactor{
		IDField:    id,
		AltIDField: altID,
		AliasField: alias,
		TaxonField: taxon,
		ID:         resolver.ExtractIdentifier(id, altID, alias),
		Taxon:      TaxonID(taxon),
	}
}

// DetectionMethods extracts the parenthesized label of every
// "code(label)" token in a "|"-separated field.
func DetectionMethods(field string) []string {
	seen := make(map[string]struct{})
	for _, tok := range strings.Split(field, "|") {
		m := methodPattern.FindStringSubmatch(strings.TrimSpace(tok))
		if m == nil {
			continue
		}
		seen[m[1]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// TaxonID returns the numeric id of a "taxid:<n>(<name>)" tag.
func TaxonID(field string) string {
	m := taxidPattern.FindStringSubmatch(strings.TrimSpace(field))
	if m == nil {
		return ""
	}
	return m[1]
}
