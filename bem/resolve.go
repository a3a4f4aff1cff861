package bem

import (
	"regexp"
	"slices"

	"github.com/shibukawa/bemselector/resolver"
	"github.com/shibukawa/bemselector/stylesheet"
	"github.com/shibukawa/bemselector/tokenizer"
)

// ResolveEntities returns the BEM entities of every resolved selector of node,
// in resolved-selector order and then source position order.
func ResolveEntities(node stylesheet.Node, separators Separators) []*Entity {
	text, _, ok := stylesheet.SelectorOf(node)
	if !ok {
		return nil
	}
	return ResolveEntitiesFrom(node, text, separators)
}

// ResolveEntitiesFrom is like ResolveEntities with a source override.
func ResolveEntitiesFrom(node stylesheet.Node, source string, separators Separators) []*Entity {
	pattern := separators.WithDefaults().pattern()

	var result []*Entity
	for _, mapped := range resolver.ResolveSelectorNodesFrom(node, source) {
		result = append(result, entitiesOf(node, mapped, pattern)...)
	}
	return result
}

// EntitiesOf extracts the entities of one mapped selector.
func EntitiesOf(node stylesheet.Node, mapped *resolver.MappedSelector, separators Separators) []*Entity {
	return entitiesOf(node, mapped, separators.WithDefaults().pattern())
}

func entitiesOf(node stylesheet.Node, mapped *resolver.MappedSelector, pattern *regexp.Regexp) []*Entity {
	var result []*Entity
	for _, segment := range ExtractCandidateSegments(mapped.ResolvedSelectors) {
		result = append(result, segmentEntities(node, mapped, segment, pattern)...)
	}
	slices.SortStableFunc(result, func(a, b *Entity) int {
		return a.ClassNode.SourceIndex - b.ClassNode.SourceIndex
	})
	return result
}

// segmentEntities makes the first class of a segment its primary entity. The
// other classes become modifiers when they share its block, entities otherwise.
func segmentEntities(node stylesheet.Node, mapped *resolver.MappedSelector, segment Segment, pattern *regexp.Regexp) []*Entity {
	var (
		primary *Entity
		result  []*Entity
		context = &Context{}
	)

	for _, n := range segment.Nodes {
		switch n.Type {
		case tokenizer.TAG, tokenizer.UNIVERSAL:
			context.Tags = append(context.Tags, n.Value)
		case tokenizer.ID:
			context.IDs = append(context.IDs, n.Value)
		case tokenizer.ATTRIBUTE:
			context.Attributes = append(context.Attributes, n.Value)
		case tokenizer.PSEUDO:
			if n.IsPseudoElement() {
				context.PseudoElements = append(context.PseudoElements, n.Value)
			} else {
				context.PseudoClasses = append(context.PseudoClasses, n.Value)
			}
		case tokenizer.CLASS:
			entity := newEntity(node, mapped, n, pattern)
			if entity == nil {
				continue
			}
			entity.Context = context
			if primary == nil {
				primary = entity
				entity.SourceContext = segment.Pseudo
				result = append(result, entity)
				continue
			}
			class := ContextClass{Entity: entity, Pseudo: segment.Pseudo}
			if entity.Block.Value == primary.Block.Value {
				entity.SourceContext = ModifierContext
				context.Classes.Modifiers = append(context.Classes.Modifiers, class)
			} else {
				entity.SourceContext = EntityContext
				context.Classes.Entities = append(context.Classes.Entities, class)
			}
			result = append(result, entity)
		}
	}
	return result
}

// newEntity parses a class node and maps its parts back to the source.
func newEntity(node stylesheet.Node, mapped *resolver.MappedSelector, class *tokenizer.Node, pattern *regexp.Regexp) *Entity {
	parts, ok := parseEntity(class.Value, pattern)
	if !ok {
		return nil
	}
	if parts.Block == nil {
		panic("bem: entity without a block part")
	}

	// class.Value starts right after the "."
	base := class.SourceIndex + 1
	for _, part := range parts.List() {
		part.Range = part.Range.Shift(base)
		part.SourceRange = nil
		if r, ok := mapped.SourceRange(part.Range); ok {
			r = r.Shift(mapped.Offset)
			part.SourceRange = &r
		}
	}

	return &Entity{
		Parts:       parts,
		Node:        node,
		BemSelector: parts.Selector(),
		ClassNode:   class,
		Selector:    mapped,
	}
}
