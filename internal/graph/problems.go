package graph

import "sort"

// Problem lists the input lines on which one raw identifier failed to resolve.
type Problem struct {
	Key   string
	Lines []int
}

// ProblemLog collects unresolved identifiers by diagnostic key.
type ProblemLog struct {
	entries map[string]map[int]struct{}
}

func NewProblemLog() *ProblemLog {
	return &ProblemLog{entries: make(map[string]map[int]struct{})}
}

func (p *ProblemLog) Add(key string, line int) {
	lines, ok := p.entries[key]
	if !ok {
		lines = make(map[int]struct{})
		p.entries[key] = lines
	}
	lines[line] = struct{}{}
}

// Len returns the number of distinct unresolved identifiers.
func (p *ProblemLog) Len() int {
	return len(p.entries)
}

// LineCount sums line-set sizes across all keys.
func (p *ProblemLog) LineCount() int {
	n := 0
	for _, lines := range p.entries {
		n += len(lines)
	}
	return n
}

// Entries returns problems sorted by key, each with sorted line numbers.
func (p *ProblemLog) Entries() []Problem {
	out := make([]Problem, 0, len(p.entries))
	for key, set := range p.entries {
		lines := make([]int, 0, len(set))
		for l := range set {
			lines = append(lines, l)
		}
		sort.Ints(lines)
		out = append(out, Problem{Key: key, Lines: lines})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
