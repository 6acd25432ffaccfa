package resolver

import (
	"regexp"
	"strings"
)

var (
	accessionPattern    = regexp.MustCompile(`^uniprotkb:(.+)`)
	embeddedNamePattern = regexp.MustCompile(`^uniprotkb:([^)]*)\(gene name\)`)
)

// Identifier is the identifier triple of one interactor after extraction.
// Empty fields are absent.
type Identifier struct {
	Accession    string
	EmbeddedName string
	Alias        string
}

// ExtractIdentifier pulls the accession, embedded gene name and alias out of
// the raw MITAB columns. Fields that do not match their pattern, and the
// "-"/"None" placeholders, come back empty.
func ExtractIdentifier(accessionField, embeddedNameField, aliasField string) Identifier {
	var id Identifier
	if m := accessionPattern.FindStringSubmatch(accessionField); m != nil {
		id.Accession = m[1]
	}
	if m := embeddedNamePattern.FindStringSubmatch(embeddedNameField); m != nil {
		id.EmbeddedName = m[1]
	}
	if !IsPlaceholder(aliasField) {
		id.Alias = aliasField
	}
	return id
}

// IsPlaceholder reports whether s is an empty value marker.
func IsPlaceholder(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "-", "None":
		return true
	}
	return false
}
