package resolver

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/bemselector/testhelper"
	"github.com/shibukawa/bemselector/tokenizer"
)

func TestLink(t *testing.T) {
	root := testhelper.Parse(t, ".block { &__el:hover {} }")
	mapped := ResolveSelectorNodes(testhelper.Find(t, root, "&__el:hover"))
	assert.Equal(t, 1, len(mapped))
	m := mapped[0]
	assert.Equal(t, ".block__el:hover", m.Resolved)

	// source side: & __el :hover
	assert.Equal(t, 3, len(m.Linked.Source))
	assert.Equal(t, tokenizer.NESTING, m.Linked.Source[0].Node.Type)
	assert.Equal(t, 0, m.Linked.Source[0].ResolvedSourceIndex)
	assert.Equal(t, 6, m.Linked.Source[1].ResolvedSourceIndex)
	assert.Equal(t, 5, m.Linked.Source[1].ContextOffset)
	assert.Equal(t, 10, m.Linked.Source[2].ResolvedSourceIndex)

	// resolved side: .block__el :hover
	assert.Equal(t, 2, len(m.Linked.Resolved))
	class := m.Linked.Resolved[0]
	assert.Equal(t, tokenizer.CLASS, class.Node.Type)
	assert.Equal(t, []SourceMatch{
		{Value: "&", Kind: NestingFragment, SourceRange: Range{0, 1}, ResolvedRange: Range{0, 6}},
		{Value: "__el", Kind: LiteralFragment, SourceRange: Range{1, 5}, ResolvedRange: Range{6, 10}, ContextOffset: 5},
	}, class.SourceMatches)

	hover := m.Matches(m.Linked.Resolved[1].Node)
	assert.Equal(t, []SourceMatch{
		{Value: ":hover", Kind: LiteralFragment, SourceRange: Range{5, 11}, ResolvedRange: Range{10, 16}, ContextOffset: 5},
	}, hover)
}

func TestLinkPseudoArguments(t *testing.T) {
	root := testhelper.Parse(t, ".a { &:is(.b) {} }")
	m := ResolveSelectorNodes(testhelper.Find(t, root, "&:is(.b)"))[0]
	assert.Equal(t, ".a:is(.b)", m.Resolved)

	var is, b *tokenizer.Node
	for n := range tokenizer.Nodes(m.ResolvedSelectors) {
		switch n.Value {
		case ":is":
			is = n
		case "b":
			b = n
		}
	}

	isMatches := m.Matches(is)
	assert.Equal(t, 1, len(isMatches))
	assert.Equal(t, ":is", isMatches[0].Value)
	assert.Equal(t, Range{1, 4}, isMatches[0].SourceRange)

	bMatches := m.Matches(b)
	assert.Equal(t, 1, len(bMatches))
	assert.Equal(t, ".b", bMatches[0].Value)
	assert.Equal(t, Range{5, 7}, bMatches[0].SourceRange)
}

func TestLinkWithContextPrefix(t *testing.T) {
	root := testhelper.Parse(t, ".a, .x { .b, .c {} }")
	mapped := ResolveSelectorNodes(testhelper.Find(t, root, ".b, .c"))
	assert.Equal(t, 4, len(mapped))

	m := mapped[1]
	assert.Equal(t, ".a .c", m.Resolved)
	assert.Equal(t, 4, m.Offset)

	// the context nodes have no source
	assert.Equal(t, 0, len(m.Linked.Resolved[0].SourceMatches))
	assert.Equal(t, 0, len(m.Linked.Resolved[1].SourceMatches))
	last := m.Linked.Resolved[2]
	assert.Equal(t, "c", last.Node.Value)
	assert.Equal(t, Range{0, 2}, last.SourceMatches[0].SourceRange)
	assert.Equal(t, 4, last.SourceMatches[0].SourceOffset)

	assert.Equal(t, 3, m.Linked.Source[0].ContextOffset)
}

func TestMapUnparseable(t *testing.T) {
	m := Map(ResolvedSelector{Source: ".a[", Resolved: ".x .a["})
	assert.Equal(t, 0, len(m.SourceSelectors))
	assert.Equal(t, 0, len(m.ResolvedSelectors))
	assert.Equal(t, 0, len(m.Linked.Resolved))
}
