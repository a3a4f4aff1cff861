package tokenizer

import (
	"errors"
	"strings"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated comment")
	ErrUnbalancedBracket   = errors.New("unbalanced bracket")
	ErrEmptySelector       = errors.New("empty selector")
	ErrExpectedName        = errors.New("expected a name")
	ErrNestingTooDeep      = errors.New("pseudo-class arguments nested too deeply")
)

// NodeType represents the type of a selector node
type NodeType int

const (
	TAG        NodeType = iota // div, __element (suffix after &), #{$var}
	CLASS                      // .name
	ID                         // #name
	ATTRIBUTE                  // [attr=value]
	PSEUDO                     // :hover, ::before, :is(...)
	COMBINATOR                 // >, +, ~, descendant whitespace
	NESTING                    // & or #{&}
	UNIVERSAL                  // *
	COMMENT                    // /* comment */
)

// String returns the string representation of NodeType
func (t NodeType) String() string {
	switch t {
	case TAG:
		return "TAG"
	case CLASS:
		return "CLASS"
	case ID:
		return "ID"
	case ATTRIBUTE:
		return "ATTRIBUTE"
	case PSEUDO:
		return "PSEUDO"
	case COMBINATOR:
		return "COMBINATOR"
	case NESTING:
		return "NESTING"
	case UNIVERSAL:
		return "UNIVERSAL"
	case COMMENT:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// Node is an atomic part of a selector.
//
// Raw is the exact source text of the node. Concatenating Raw of all nodes of a
// Selector (with Before and After) reproduces the selector text. SourceIndex is
// the offset of Raw in the string passed to Tokenize.
type Node struct {
	Type NodeType
	// Value is the normalized value:
	//   CLASS/ID: name without prefix, PSEUDO: ":name"/"::name",
	//   ATTRIBUTE: text between brackets, COMBINATOR: ">", "+", "~" or " ".
	Value       string
	Raw         string
	SourceIndex int

	// Pseudo arguments. Arguments is set for pseudo-classes taking selector lists
	// (:is, :not, :has, ...), Argument holds the raw text between the parentheses.
	Arguments []*Selector
	Argument  string
	HasParens bool
}

// End returns the offset just after the node.
func (n *Node) End() int {
	return n.SourceIndex + len(n.Raw)
}

// NameEnd returns the offset just after the name part of the node. For pseudo
// nodes with arguments this excludes the parenthesized part.
func (n *Node) NameEnd() int {
	if n.Type == PSEUDO {
		return n.SourceIndex + len(n.Value)
	}
	return n.End()
}

// IsPseudoElement reports whether the node is a pseudo-element (::name).
func (n *Node) IsPseudoElement() bool {
	return n.Type == PSEUDO && strings.HasPrefix(n.Value, "::")
}

// String returns the source text of the node
func (n *Node) String() string {
	return n.Raw
}

// Selector is one comma-separated branch of a selector list.
type Selector struct {
	Nodes []*Node
	// Before and After hold whitespace around the first and last node.
	Before string
	After  string
	// SourceIndex is the offset of the branch (including Before).
	SourceIndex int
}

// String reconstructs the exact branch text
func (s *Selector) String() string {
	var builder strings.Builder
	builder.WriteString(s.Before)
	for _, n := range s.Nodes {
		builder.WriteString(n.Raw)
	}
	builder.WriteString(s.After)
	return builder.String()
}

// Trimmed returns the branch text without surrounding whitespace
func (s *Selector) Trimmed() string {
	str := s.String()
	return str[len(s.Before) : len(str)-len(s.After)]
}

// Start returns the offset of the first node.
func (s *Selector) Start() int {
	return s.SourceIndex + len(s.Before)
}
