package bem

import (
	"github.com/shibukawa/bemselector/nesting"
	"github.com/shibukawa/bemselector/resolver"
	"github.com/shibukawa/bemselector/stylesheet"
)

// Block is the BEM block a stylesheet is written for.
type Block struct {
	Name string
	// Selector is "." followed by Name.
	Selector string
	// Node is the rule the block was taken from.
	Node *stylesheet.Rule
}

// GetBlock finds the first rule holding BEM entities, at top level or inside
// @layer and @media, and returns its block. Every selector of that rule must
// start with the same block, otherwise GetBlock returns nil.
func GetBlock(root *stylesheet.Root, separators Separators) *Block {
	pattern := separators.WithDefaults().pattern()
	rule, mapped := firstEntityRule(root, func(rule *stylesheet.Rule) []*resolver.MappedSelector {
		var result []*resolver.MappedSelector
		for _, m := range resolver.ResolveSelectorNodes(rule) {
			if len(entitiesOf(rule, m, pattern)) > 0 {
				result = append(result, m)
			}
		}
		return result
	})
	if rule == nil {
		return nil
	}

	var name string
	for _, m := range mapped {
		first := entitiesOf(rule, m, pattern)[0]
		switch {
		case name == "":
			name = first.Block.Value
		case name != first.Block.Value:
			return nil
		}
	}
	return &Block{Name: name, Selector: "." + name, Node: rule}
}

func firstEntityRule(c stylesheet.Container, mapper func(*stylesheet.Rule) []*resolver.MappedSelector) (*stylesheet.Rule, []*resolver.MappedSelector) {
	for _, child := range c.Children() {
		switch v := child.(type) {
		case *stylesheet.Rule:
			if mapped := mapper(v); len(mapped) > 0 {
				return v, mapped
			}
		case *stylesheet.AtRule:
			switch nesting.AtRuleName(v) {
			case "layer", "media":
				if rule, mapped := firstEntityRule(v, mapper); rule != nil {
					return rule, mapped
				}
			}
		}
	}
	return nil, nil
}
