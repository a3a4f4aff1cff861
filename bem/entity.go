package bem

import (
	"regexp"
	"strings"

	"github.com/shibukawa/bemselector/resolver"
	"github.com/shibukawa/bemselector/stylesheet"
	"github.com/shibukawa/bemselector/tokenizer"
)

// PartType is the BEM level of a part
type PartType int

const (
	BlockPart PartType = iota
	ElementPart
	ModifierNamePart
	ModifierValuePart
)

// String returns the string representation of PartType
func (p PartType) String() string {
	switch p {
	case BlockPart:
		return "block"
	case ElementPart:
		return "element"
	case ModifierNamePart:
		return "modifierName"
	case ModifierValuePart:
		return "modifierValue"
	default:
		return "unknown"
	}
}

// Range is a half-open [Start, End) byte range.
type Range = resolver.Range

// Part is one part of a BEM class name.
type Part struct {
	Type  PartType
	Value string
	// Separator precedes Value: "." for blocks, one of the Separators otherwise.
	Separator string
	// Selector is Separator followed by Value.
	Selector string
	// Range covers Value in the resolved selector (or in the parsed class name).
	Range Range
	// SourceRange covers Value in the selector as written. It is nil when the part
	// was produced entirely by "&" or a variable.
	SourceRange *Range
}

// Parts is a parsed BEM class name. Block is always set.
type Parts struct {
	Block         *Part
	Element       *Part
	ModifierName  *Part
	ModifierValue *Part
}

// List returns the present parts, block first.
func (p Parts) List() []*Part {
	result := []*Part{p.Block}
	for _, part := range []*Part{p.Element, p.ModifierName, p.ModifierValue} {
		if part != nil {
			result = append(result, part)
		}
	}
	return result
}

// Get returns the part of the given type or nil.
func (p Parts) Get(t PartType) *Part {
	switch t {
	case BlockPart:
		return p.Block
	case ElementPart:
		return p.Element
	case ModifierNamePart:
		return p.ModifierName
	case ModifierValuePart:
		return p.ModifierValue
	}
	return nil
}

// MostSpecific returns the deepest present part.
func (p Parts) MostSpecific() *Part {
	list := p.List()
	return list[len(list)-1]
}

// Selector rebuilds ".block__element--name--value" from the parts.
func (p Parts) Selector() string {
	return p.SelectorUpTo(ModifierValuePart)
}

// SelectorUpTo rebuilds the class selector including parts up to level.
func (p Parts) SelectorUpTo(level PartType) string {
	var builder strings.Builder
	for _, part := range p.List() {
		if part.Type > level {
			break
		}
		builder.WriteString(part.Selector)
	}
	return builder.String()
}

// ParseEntity splits a class name into its BEM parts. A leading "." is
// accepted. Ranges are relative to name. It returns false for empty names.
func ParseEntity(name string, separators Separators) (Parts, bool) {
	return parseEntity(name, separators.WithDefaults().pattern())
}

func parseEntity(name string, pattern *regexp.Regexp) (Parts, bool) {
	base := 0
	if strings.HasPrefix(name, ".") {
		base = 1
	}
	class := name[base:]
	match := pattern.FindStringSubmatchIndex(class)
	if match == nil {
		return Parts{}, false
	}

	previous := 0
	part := func(t PartType, group int) *Part {
		start, end := match[group*2], match[group*2+1]
		if start < 0 {
			return nil
		}
		separator := "."
		if t != BlockPart {
			separator = class[previous:start]
		}
		previous = end
		r := Range{Start: base + start, End: base + end}
		source := r
		return &Part{
			Type:        t,
			Value:       class[start:end],
			Separator:   separator,
			Selector:    separator + class[start:end],
			Range:       r,
			SourceRange: &source,
		}
	}

	parts := Parts{
		Block:         part(BlockPart, 1),
		Element:       part(ElementPart, 2),
		ModifierName:  part(ModifierNamePart, 3),
		ModifierValue: part(ModifierValuePart, 4),
	}
	return parts, true
}

// Context is what surrounds an entity inside its compound selector.
type Context struct {
	Tags           []string
	IDs            []string
	Attributes     []string
	PseudoClasses  []string
	PseudoElements []string
	Classes        ContextClasses
}

// ContextClasses are the further classes of a compound selector, split by whether
// they share the block of the primary entity.
type ContextClasses struct {
	Modifiers []ContextClass
	Entities  []ContextClass
}

// ContextClass is a class found next to a primary entity.
type ContextClass struct {
	Entity *Entity
	// Pseudo is the folded name of the enclosing pseudo-class, empty at top level.
	Pseudo string
}

// Source contexts of an entity. Entities inside pseudo-class arguments use the
// folded pseudo name (":is", ":not", ...) instead.
const (
	TopLevelContext = ""
	ModifierContext = "modifier"
	EntityContext   = "entity"
)

// Entity is a BEM class found in a resolved selector.
type Entity struct {
	Parts

	// Node is the rule or at-rule the entity was resolved from.
	Node stylesheet.Node
	// BemSelector is the canonical ".block__element--name--value" form.
	BemSelector string
	// SourceContext is TopLevelContext, ModifierContext, EntityContext or a
	// pseudo-class name.
	SourceContext string
	Context       *Context

	// ClassNode is the class node in the resolved selector.
	ClassNode *tokenizer.Node
	// Selector is the resolved selector the entity comes from.
	Selector *resolver.MappedSelector
}

// Present reports whether the most specific part of the entity is written in
// the source rather than injected.
func (e *Entity) Present() bool {
	return e.MostSpecific().SourceRange != nil
}

// Position returns the document position of a source range start.
func (e *Entity) Position(r Range) stylesheet.Position {
	_, offset, _ := stylesheet.SelectorOf(e.Node)
	root := e.Node.Root()
	if root == nil {
		return stylesheet.Position{Offset: offset + r.Start}
	}
	return root.PositionAt(offset + r.Start)
}

// String returns the BEM selector
func (e *Entity) String() string {
	return e.BemSelector
}

// normalizedContext folds compound-level contexts into the top level.
func (e *Entity) normalizedContext() string {
	switch e.SourceContext {
	case ModifierContext, EntityContext:
		return TopLevelContext
	}
	return e.SourceContext
}
