// Package nesting builds the nesting paths of a rule: the chain of ancestor
// selectors, outermost first, that its own selector is nested in.
package nesting

import (
	"strings"

	"github.com/shibukawa/bemselector/stylesheet"
	"golang.org/x/text/cases"
)

// MaxDepth bounds the number of ancestors walked for one node.
const MaxDepth = 256

// ItemType is the kind of a nesting level
type ItemType int

const (
	RuleItem   ItemType = iota // plain rule
	NestItem                   // @nest
	AtRootItem                 // @at-root, Value is empty for the bare form
)

// String returns the string representation of ItemType
func (t ItemType) String() string {
	switch t {
	case RuleItem:
		return "rule"
	case NestItem:
		return "nest"
	case AtRootItem:
		return "at-root"
	default:
		return "unknown"
	}
}

// Item is one level of a nesting path.
type Item struct {
	Type ItemType
	// Value is the selector part as written, not resolved.
	Value string
	// Node is the rule or at-rule owning the level.
	Node stylesheet.Node
	// Offset is the offset of Value in the selector/params string of Node
	// (or in the source override for the leaf).
	Offset int
	// Skipped lists the transparent at-rules between this level and the
	// previous one, outermost first.
	Skipped []*stylesheet.AtRule
}

// Path is a nesting path from the outermost ancestor to the node itself.
type Path []Item

// Leaf returns the last item of the path
func (p Path) Leaf() Item {
	return p[len(p)-1]
}

// String joins the raw values of the path for diagnostics
func (p Path) String() string {
	values := make([]string, len(p))
	for i, item := range p {
		values[i] = item.Value
		if item.Type == AtRootItem {
			values[i] = strings.TrimSpace("@at-root " + item.Value)
		}
	}
	return strings.Join(values, " > ")
}

var folder = cases.Fold()

// AtRuleName returns the case-folded name of an at-rule.
func AtRuleName(a *stylesheet.AtRule) string {
	return folder.String(a.Name)
}

// Classify reports which kind of nesting level a node is. ok is false for
// nodes that are transparent (plain at-rules, @at-root with (with:)/(without:)
// queries) or that are not containers.
func Classify(n stylesheet.Node) (ItemType, bool) {
	switch v := n.(type) {
	case *stylesheet.Rule:
		return RuleItem, true
	case *stylesheet.AtRule:
		switch AtRuleName(v) {
		case "nest":
			return NestItem, true
		case "at-root":
			if strings.HasPrefix(v.Params, "(") {
				return 0, false
			}
			return AtRootItem, true
		}
	}
	return 0, false
}

// Parent returns the nearest ancestor of n that forms a nesting level, or nil.
func Parent(n stylesheet.Node) stylesheet.Container {
	depth := 0
	for p := n.Parent(); p != nil && depth < MaxDepth; p = p.Parent() {
		if _, ok := Classify(p); ok {
			return p
		}
		depth++
	}
	return nil
}

// BuildTrees returns every nesting path of node.
func BuildTrees(node stylesheet.Node) []Path {
	text, _, ok := stylesheet.SelectorOf(node)
	if !ok {
		return nil
	}
	return BuildTreesFrom(node, text)
}

// BuildTreesFrom is like BuildTrees but uses source instead of the node's own selector.
func BuildTreesFrom(node stylesheet.Node, source string) []Path {
	leafType, ok := Classify(node)
	if !ok {
		return nil
	}

	leafParts := Split(source)
	if len(leafParts) == 0 {
		return nil
	}

	// levels from the node upward; each level holds the alternatives of that level
	var levels [][]Item
	leaf := make([]Item, 0, len(leafParts))
	for _, part := range leafParts {
		leaf = append(leaf, Item{Type: leafType, Value: part.Value, Node: node, Offset: part.Offset})
	}
	levels = append(levels, leaf)

	var skipped []*stylesheet.AtRule
	depth := 0
	for p := node.Parent(); p != nil && depth < MaxDepth; p = p.Parent() {
		depth++
		if _, isRoot := p.(*stylesheet.Root); isRoot {
			break
		}
		itemType, ok := Classify(p)
		if !ok {
			if a, isAtRule := p.(*stylesheet.AtRule); isAtRule {
				skipped = append(skipped, a)
			}
			continue
		}
		attachSkipped(levels[len(levels)-1], skipped)
		skipped = nil

		levels = append(levels, levelItems(p, itemType))
	}
	attachSkipped(levels[len(levels)-1], skipped)

	return expand(levels)
}

func levelItems(n stylesheet.Container, itemType ItemType) []Item {
	text, _, _ := stylesheet.SelectorOf(n)
	if itemType == AtRootItem && text == "" {
		return []Item{{Type: AtRootItem, Node: n}}
	}
	parts := Split(text)
	if len(parts) == 0 {
		// an empty selector still forms a level
		return []Item{{Type: itemType, Node: n}}
	}
	items := make([]Item, 0, len(parts))
	for _, part := range parts {
		items = append(items, Item{Type: itemType, Value: part.Value, Node: n, Offset: part.Offset})
	}
	return items
}

// attachSkipped records skipped at-rules (collected innermost first) on every item of a level.
func attachSkipped(level []Item, skipped []*stylesheet.AtRule) {
	if len(skipped) == 0 {
		return
	}
	outermostFirst := make([]*stylesheet.AtRule, len(skipped))
	for i, a := range skipped {
		outermostFirst[len(skipped)-1-i] = a
	}
	for i := range level {
		level[i].Skipped = outermostFirst
	}
}

// expand computes the Cartesian product of the levels (given innermost first)
// as paths ordered outermost first.
func expand(levels [][]Item) []Path {
	paths := []Path{{}}
	for i := len(levels) - 1; i >= 0; i-- {
		next := make([]Path, 0, len(paths)*len(levels[i]))
		for _, prefix := range paths {
			for _, item := range levels[i] {
				path := make(Path, len(prefix), len(prefix)+1)
				copy(path, prefix)
				next = append(next, append(path, item))
			}
		}
		paths = next
	}
	return paths
}
