package resolver

type AccessionStrategy struct{ Table SymbolTable }

func (AccessionStrategy) Name() string { return "accession" }

func (s AccessionStrategy) Resolve(id Identifier) (string, bool) {
	if id.Accession == "" {
		return "", false
	}
	return s.Table.SymbolForAccession(id.Accession)
}

// OfficialNameStrategy accepts the embedded gene name when it is already official.
type OfficialNameStrategy struct{ Table SymbolTable }

func (OfficialNameStrategy) Name() string { return "official_name" }

func (s OfficialNameStrategy) Resolve(id Identifier) (string, bool) {
	return official(s.Table, id.EmbeddedName)
}

// OfficialAliasStrategy accepts the alias when it is already official.
type OfficialAliasStrategy struct{ Table SymbolTable }

func (OfficialAliasStrategy) Name() string { return "official_alias" }

func (s OfficialAliasStrategy) Resolve(id Identifier) (string, bool) {
	return official(s.Table, id.Alias)
}

type FindNameStrategy struct{ Table SymbolTable }

func (FindNameStrategy) Name() string { return "find_name" }

func (s FindNameStrategy) Resolve(id Identifier) (string, bool) {
	return find(s.Table, id.EmbeddedName)
}

type FindAliasStrategy struct{ Table SymbolTable }

func (FindAliasStrategy) Name() string { return "find_alias" }

func (s FindAliasStrategy) Resolve(id Identifier) (string, bool) {
	return find(s.Table, id.Alias)
}

// EmbeddedNameFallback returns the embedded gene name unverified. It never
// falls back to the alias.
type EmbeddedNameFallback struct{}

func (EmbeddedNameFallback) Name() string { return "fallback_name" }

func (EmbeddedNameFallback) Resolve(id Identifier) (string, bool) {
	if IsPlaceholder(id.EmbeddedName) {
		return "", false
	}
	return id.EmbeddedName, true
}

func official(t SymbolTable, name string) (string, bool) {
	if name == "" || !t.IsOfficial(name) {
		return "", false
	}
	return name, true
}

func find(t SymbolTable, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	sym, ok := t.Find(name)
	if !ok || sym == "" {
		return "", false
	}
	return sym, true
}
