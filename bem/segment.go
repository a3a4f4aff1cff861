package bem

import (
	"slices"

	"golang.org/x/text/cases"

	"github.com/shibukawa/bemselector/tokenizer"
)

var folder = cases.Fold()

// Segment is a compound selector that may hold BEM entities.
type Segment struct {
	Nodes []*tokenizer.Node
	// Pseudo is the folded name of the pseudo-class whose argument holds the
	// segment, empty at top level.
	Pseudo string
}

// Start returns the offset of the first node.
func (s Segment) Start() int {
	return s.Nodes[0].SourceIndex
}

// ExtractCandidateSegments splits selectors on combinators and keeps the
// compounds containing a class or a nesting selector. Selector arguments of
// pseudo-classes are searched too. Segments are sorted by position.
func ExtractCandidateSegments(selectors []*tokenizer.Selector) []Segment {
	var result []Segment
	for _, s := range selectors {
		result = collectSegments(result, s, TopLevelContext)
	}
	slices.SortStableFunc(result, func(a, b Segment) int {
		return a.Start() - b.Start()
	})
	return result
}

func collectSegments(result []Segment, selector *tokenizer.Selector, pseudo string) []Segment {
	var current []*tokenizer.Node
	flush := func() {
		if isCandidate(current) {
			result = append(result, Segment{Nodes: current, Pseudo: pseudo})
		}
		current = nil
	}

	for _, n := range selector.Nodes {
		switch n.Type {
		case tokenizer.COMBINATOR:
			flush()
		case tokenizer.COMMENT:
		default:
			current = append(current, n)
		}
		if n.Type == tokenizer.PSEUDO {
			name := folder.String(n.Value)
			for _, arg := range n.Arguments {
				result = collectSegments(result, arg, name)
			}
		}
	}
	flush()
	return result
}

func isCandidate(nodes []*tokenizer.Node) bool {
	return slices.ContainsFunc(nodes, func(n *tokenizer.Node) bool {
		return n.Type == tokenizer.CLASS || n.Type == tokenizer.NESTING
	})
}
