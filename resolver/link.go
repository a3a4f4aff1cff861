package resolver

import (
	"github.com/shibukawa/bemselector/stylesheet"
	"github.com/shibukawa/bemselector/tokenizer"
)

// SourceAnnotation tells where a source node ended up in the resolved selector.
type SourceAnnotation struct {
	Node *tokenizer.Node
	// ResolvedSourceIndex is the offset of the node in the resolved selector.
	ResolvedSourceIndex int
	// ContextOffset is ResolvedSourceIndex minus the node's own offset.
	ContextOffset int
	// SourceOffset is the offset of the branch in the full selector.
	SourceOffset int
}

// SourceMatch is one source fragment contributing to a resolved node.
type SourceMatch struct {
	// Value is the source text of the match.
	Value         string
	Kind          FragmentKind
	SourceRange   Range
	ResolvedRange Range
	ContextOffset int
	SourceOffset  int
}

// ResolvedAnnotation lists the source fragments a resolved node derives from.
type ResolvedAnnotation struct {
	Node          *tokenizer.Node
	SourceMatches []SourceMatch
}

// Linked is the result of Link. Both lists are in depth-first node order.
type Linked struct {
	Source   []SourceAnnotation
	Resolved []ResolvedAnnotation
}

// Link links the nodes of a resolved selector to the nodes of its source.
func Link(source, resolved []*tokenizer.Selector, meta ResolvedSelector) *Linked {
	linked := &Linked{}

	for n := range tokenizer.Nodes(source) {
		index := meta.ToResolved(n.SourceIndex)
		linked.Source = append(linked.Source, SourceAnnotation{
			Node:                n,
			ResolvedSourceIndex: index,
			ContextOffset:       index - n.SourceIndex,
			SourceOffset:        meta.Offset,
		})
	}

	for n := range tokenizer.Nodes(resolved) {
		linked.Resolved = append(linked.Resolved, ResolvedAnnotation{
			Node:          n,
			SourceMatches: matchNode(n, meta),
		})
	}
	return linked
}

// matchNode finds the fragments overlapping a resolved node. Literal fragments are
// clipped to the node. Pseudo nodes only match on their name, never on the text of
// their arguments.
func matchNode(n *tokenizer.Node, meta ResolvedSelector) []SourceMatch {
	nodeRange := Range{Start: n.SourceIndex, End: n.NameEnd()}

	var matches []SourceMatch
	for _, f := range meta.Fragments {
		if f.Kind == ContextFragment {
			continue
		}
		overlap, ok := f.Resolved.intersect(nodeRange)
		if !ok {
			continue
		}
		match := SourceMatch{
			Kind:          f.Kind,
			ResolvedRange: overlap,
			ContextOffset: f.Resolved.Start - f.Source.Start,
			SourceOffset:  meta.Offset,
		}
		if f.Kind == LiteralFragment {
			match.SourceRange = overlap.Shift(f.Source.Start - f.Resolved.Start)
			match.Value = meta.Source[match.SourceRange.Start:match.SourceRange.End]
		} else {
			// injected text keeps pointing at its own token
			match.SourceRange = f.Source
			match.Value = f.Text
		}
		matches = append(matches, match)
	}
	return matches
}

// MappedSelector is a resolved selector with its tokenized source and result.
type MappedSelector struct {
	ResolvedSelector

	SourceSelectors   []*tokenizer.Selector
	ResolvedSelectors []*tokenizer.Selector
	Linked            *Linked

	matches map[*tokenizer.Node][]SourceMatch
}

// Matches returns the source matches of a resolved node.
func (m *MappedSelector) Matches(n *tokenizer.Node) []SourceMatch {
	return m.matches[n]
}

// ResolveSelectorNodes resolves the selectors of node and links their nodes.
func ResolveSelectorNodes(node stylesheet.Node) []*MappedSelector {
	text, _, ok := stylesheet.SelectorOf(node)
	if !ok {
		return nil
	}
	return ResolveSelectorNodesFrom(node, text)
}

// ResolveSelectorNodesFrom is like ResolveSelectorNodes with a source override.
func ResolveSelectorNodesFrom(node stylesheet.Node, source string) []*MappedSelector {
	var result []*MappedSelector
	for _, resolved := range ResolveNestedSelectorFrom(node, source) {
		result = append(result, Map(resolved))
	}
	return result
}

// Map tokenizes and links one resolved selector. Unparseable selectors give
// empty node lists.
func Map(resolved ResolvedSelector) *MappedSelector {
	m := &MappedSelector{
		ResolvedSelector:  resolved,
		SourceSelectors:   tokenizer.Tokenize(resolved.Source),
		ResolvedSelectors: tokenizer.Tokenize(resolved.Resolved),
	}
	m.Linked = Link(m.SourceSelectors, m.ResolvedSelectors, resolved)
	m.matches = make(map[*tokenizer.Node][]SourceMatch, len(m.Linked.Resolved))
	for _, a := range m.Linked.Resolved {
		m.matches[a.Node] = a.SourceMatches
	}
	return m
}
