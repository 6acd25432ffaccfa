package resolver

// SymbolTable is the read-only gene symbol authority consulted during resolution.
type SymbolTable interface {
	IsOfficial(symbol string) bool
	SymbolForAccession(accession string) (string, bool)
	// Find performs the table's own synonym resolution.
	Find(name string) (string, bool)
}

// Strategy is one step of the resolution chain.
type Strategy interface {
	Name() string
	Resolve(id Identifier) (string, bool)
}

// Resolution is a successful chain outcome.
type Resolution struct {
	Symbol   string
	Strategy string
}

// Chain evaluates strategies in order; the first one that yields a symbol wins.
type Chain struct {
	strategies []Strategy
	fallback   Strategy
}

func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// WithFallback sets the strategy tried last, and only when the caller allows it.
func (c *Chain) WithFallback(s Strategy) *Chain {
	c.fallback = s
	return c
}

// NewDefaultChain builds the standard order: accession, exact official
// matches, table synonym lookups, then the unverified embedded name.
func NewDefaultChain(table SymbolTable) *Chain {
	return NewChain(
		AccessionStrategy{Table: table},
		OfficialNameStrategy{Table: table},
		OfficialAliasStrategy{Table: table},
		FindNameStrategy{Table: table},
		FindAliasStrategy{Table: table},
	).WithFallback(EmbeddedNameFallback{})
}

// Names lists strategy names in evaluation order.
func (c *Chain) Names() []string {
	out := make([]string, 0, len(c.strategies)+1)
	for _, s := range c.strategies {
		out = append(out, s.Name())
	}
	if c.fallback != nil {
		out = append(out, c.fallback.Name())
	}
	return out
}

func (c *Chain) Resolve(id Identifier, allowFallback bool) (Resolution, bool) {
	for _, s := range c.strategies {
		if sym, ok := s.Resolve(id); ok {
			return Resolution{Symbol: sym, Strategy: s.Name()}, true
		}
	}
	if allowFallback && c.fallback != nil {
		if sym, ok := c.fallback.Resolve(id); ok {
			return Resolution{Symbol: sym, Strategy: c.fallback.Name()}, true
		}
	}
	return Resolution{}, false
}

// Tally counts chain outcomes per strategy.
type Tally struct {
	Hits   map[string]int
	Misses int
}

func NewTally() *Tally {
	return &Tally{Hits: make(map[string]int)}
}

func (t *Tally) Record(res Resolution, ok bool) {
	if !ok {
		t.Misses++
		return
	}
	t.Hits[res.Strategy]++
}
