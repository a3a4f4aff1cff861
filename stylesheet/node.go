package stylesheet

import (
	"fmt"
	"strings"
)

// NodeType represents the kind of a stylesheet node
type NodeType int

const (
	RootNode NodeType = iota
	RuleNode
	AtRuleNode
	DeclarationNode
	CommentNode
)

// String returns the string representation of NodeType
func (t NodeType) String() string {
	switch t {
	case RootNode:
		return "root"
	case RuleNode:
		return "rule"
	case AtRuleNode:
		return "atrule"
	case DeclarationNode:
		return "decl"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Position represents a position in the stylesheet source
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Source is the source span of a node. End is exclusive.
type Source struct {
	Start Position
	End   Position
}

// Node is implemented by every node of the tree.
type Node interface {
	Type() NodeType
	Parent() Container
	Source() Source
	Root() *Root

	setParent(Container)
	setEnd(Position)
}

// Container is a node that can hold children (Root, Rule, AtRule).
type Container interface {
	Node
	Children() []Node
	appendChild(Node)
}

type baseNode struct {
	parent Container
	source Source
}

func (b *baseNode) Parent() Container     { return b.parent }
func (b *baseNode) Source() Source        { return b.source }
func (b *baseNode) setParent(p Container) { b.parent = p }
func (b *baseNode) setEnd(end Position)   { b.source.End = end }

func (b *baseNode) rootOf(self Node) *Root {
	var current Node = self
	for current != nil {
		if r, ok := current.(*Root); ok {
			return r
		}
		p := current.Parent()
		if p == nil {
			return nil
		}
		current = p
	}
	return nil
}

type container struct {
	children []Node
}

func (c *container) Children() []Node { return c.children }

// Root is the top-level node of a parsed stylesheet.
type Root struct {
	baseNode
	container

	// Text is the whole parsed source.
	Text string

	lineStarts []int
}

func (r *Root) Type() NodeType { return RootNode }
func (r *Root) Root() *Root    { return r }

func (r *Root) appendChild(n Node) {
	n.setParent(r)
	r.children = append(r.children, n)
}

// PositionAt converts a byte offset of Text to a line/column position.
// Lines and columns are 1-based, columns count bytes.
func (r *Root) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(r.Text) {
		offset = len(r.Text)
	}
	// binary search for the last line start <= offset
	lo, hi := 0, len(r.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if r.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{
		Line:   lo + 1,
		Column: offset - r.lineStarts[lo] + 1,
		Offset: offset,
	}
}

// Rule is a qualified rule: selector { ... }
type Rule struct {
	baseNode
	container

	// Selector is the selector text as written, trimmed.
	Selector string
	// SelectorOffset is the offset of Selector in Root.Text.
	SelectorOffset int
}

func (r *Rule) Type() NodeType { return RuleNode }
func (r *Rule) Root() *Root    { return r.rootOf(r) }

func (r *Rule) appendChild(n Node) {
	n.setParent(r)
	r.children = append(r.children, n)
}

// AtRule is an at-rule with or without a body: @name params { ... } / @name params;
type AtRule struct {
	baseNode
	container

	// Name is the at-keyword without the leading "@".
	Name string
	// Params is the prelude after the name, trimmed.
	Params string
	// ParamsOffset is the offset of Params in Root.Text.
	ParamsOffset int
	// HasBody is true for block at-rules.
	HasBody bool
}

func (a *AtRule) Type() NodeType { return AtRuleNode }
func (a *AtRule) Root() *Root    { return a.rootOf(a) }

func (a *AtRule) appendChild(n Node) {
	n.setParent(a)
	a.children = append(a.children, n)
}

// Declaration is a property/value pair, including Sass variable assignments.
type Declaration struct {
	baseNode

	Prop      string
	Value     string
	Important bool
}

func (d *Declaration) Type() NodeType { return DeclarationNode }
func (d *Declaration) Root() *Root    { return d.rootOf(d) }

// IsVariable reports whether the declaration is a Sass variable assignment ($name: value).
func (d *Declaration) IsVariable() bool {
	return strings.HasPrefix(d.Prop, "$") && len(d.Prop) > 1
}

// Comment is a standalone /* ... */ comment.
type Comment struct {
	baseNode

	Text string
}

func (c *Comment) Type() NodeType { return CommentNode }
func (c *Comment) Root() *Root    { return c.rootOf(c) }

// SelectorOf returns the selector-like text of a node: the selector of a rule or
// the params of an at-rule. ok is false for other nodes.
func SelectorOf(n Node) (text string, offset int, ok bool) {
	switch v := n.(type) {
	case *Rule:
		return v.Selector, v.SelectorOffset, true
	case *AtRule:
		return v.Params, v.ParamsOffset, true
	}
	return "", 0, false
}

// Describe returns a short human readable label of a node for diagnostics.
func Describe(n Node) string {
	switch v := n.(type) {
	case *Root:
		return "root"
	case *Rule:
		return v.Selector
	case *AtRule:
		if v.Params == "" {
			return "@" + v.Name
		}
		return "@" + v.Name + " " + v.Params
	case *Declaration:
		return v.Prop + ": " + v.Value
	case *Comment:
		return "/*" + v.Text + "*/"
	}
	return ""
}
