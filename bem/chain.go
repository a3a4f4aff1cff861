package bem

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shibukawa/bemselector/nesting"
	"github.com/shibukawa/bemselector/resolver"
	"github.com/shibukawa/bemselector/stylesheet"
)

// ChainItem is one level of a BEM chain.
type ChainItem struct {
	Type PartType
	// Part is the part of the entity found on Node.
	Part *Part
	// Selector is the BEM selector up to this level.
	Selector string
	Node     stylesheet.Node
	Entity   *Entity
}

// Chain lists the rules contributing to an entity, most specific level first.
type Chain []ChainItem

// String renders the chain as "selector (type) < ...".
func (c Chain) String() string {
	items := make([]string, 0, len(c))
	for _, item := range c {
		items = append(items, item.Selector+" ("+item.Type.String()+")")
	}
	return strings.Join(items, " < ")
}

// ResolveChain reconstructs, for each entity written on node, the rules that
// built it up level by level. Ancestors are followed while one of their
// entities, in the same pseudo-class context and of the same block, is a
// shorter form of the entity. An ancestor ending inside the current level splits or
// repeats that level and is skipped. The walk stops at the first ancestor
// holding entities that cannot continue the chain.
func ResolveChain(node stylesheet.Node, separators Separators) []Chain {
	pattern := separators.WithDefaults().pattern()

	var (
		result []Chain
		seen   = make(map[string]bool)
	)
	for _, entity := range presentEntities(node, pattern) {
		start := ChainItem{
			Type:     entity.MostSpecific().Type,
			Part:     entity.MostSpecific(),
			Selector: entity.BemSelector,
			Node:     node,
			Entity:   entity,
		}
		for _, chain := range walkChain(entity, node, Chain{start}, pattern, 0) {
			key := chainKey(chain)
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, chain)
		}
	}
	return result
}

func presentEntities(node stylesheet.Node, pattern *regexp.Regexp) []*Entity {
	text, _, ok := stylesheet.SelectorOf(node)
	if !ok {
		return nil
	}
	var result []*Entity
	for _, mapped := range resolver.ResolveSelectorNodesFrom(node, text) {
		for _, entity := range entitiesOf(node, mapped, pattern) {
			if entity.Present() {
				result = append(result, entity)
			}
		}
	}
	return result
}

// walkChain extends chain from the ancestors of node.
func walkChain(start *Entity, node stylesheet.Node, chain Chain, pattern *regexp.Regexp, depth int) []Chain {
	if depth >= nesting.MaxDepth {
		return []Chain{chain}
	}
	ancestor, entities := nextAncestor(node, pattern)
	if ancestor == nil {
		return []Chain{chain}
	}

	level := chain[len(chain)-1].Type
	context := start.normalizedContext()

	var (
		result []Chain
		split  bool
	)
	for _, candidate := range entities {
		if candidate.normalizedContext() != context {
			continue
		}
		at, ok := continues(start, candidate)
		if !ok || at > level {
			continue
		}
		if at == level {
			split = true
			continue
		}
		item := ChainItem{
			Type:     at,
			Part:     candidate.Get(at),
			Selector: start.SelectorUpTo(at),
			Node:     ancestor,
			Entity:   candidate,
		}
		next := append(chain[:len(chain):len(chain)], item)
		result = append(result, walkChain(start, ancestor, next, pattern, depth+1)...)
	}

	switch {
	case len(result) > 0:
		return result
	case split:
		return walkChain(start, ancestor, chain, pattern, depth+1)
	default:
		return []Chain{chain}
	}
}

// nextAncestor finds the nearest selector ancestor with present entities.
func nextAncestor(node stylesheet.Node, pattern *regexp.Regexp) (stylesheet.Node, []*Entity) {
	for current := nesting.Parent(node); current != nil; current = nesting.Parent(current) {
		if entities := presentEntities(current, pattern); len(entities) > 0 {
			return current, entities
		}
	}
	return nil, nil
}

// continues reports whether candidate is start built up to some level, and
// returns that level. Both must share the block, every part of candidate below
// that level must equal the one of start, and the part at that level must be a
// prefix of the one of start.
func continues(start, candidate *Entity) (PartType, bool) {
	if candidate.Block.Value != start.Block.Value {
		return 0, false
	}
	if !strings.HasPrefix(start.BemSelector, candidate.BemSelector) {
		return 0, false
	}
	at := levelAt(start, len(candidate.BemSelector))
	if candidate.MostSpecific().Type != at {
		return 0, false
	}
	for _, part := range candidate.List() {
		own := start.Get(part.Type)
		if own == nil {
			return 0, false
		}
		if part.Type < at && part.Selector != own.Selector {
			return 0, false
		}
	}
	return at, true
}

// levelAt returns the level of the entity part covering offset of its BEM
// selector.
func levelAt(entity *Entity, offset int) PartType {
	end := 0
	for _, part := range entity.List() {
		end += len(part.Selector)
		if offset <= end {
			return part.Type
		}
	}
	return entity.MostSpecific().Type
}

func chainKey(chain Chain) string {
	var builder strings.Builder
	for _, item := range chain {
		builder.WriteString(item.Type.String())
		builder.WriteByte(':')
		builder.WriteString(item.Selector)
		fmt.Fprintf(&builder, "@%p;", item.Node)
	}
	return builder.String()
}
