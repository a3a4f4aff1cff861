package casedoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/resolver"
	"github.com/shibukawa/bemselector/stylesheet"
)

// NoBlock is the block expectation meaning "no block".
const NoBlock = "-"

// Mismatch is one failed expectation.
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %s, got %s", m.Field, m.Expected, m.Actual)
}

// Result is the outcome of running a case.
type Result struct {
	Case       *Case
	Mismatches []Mismatch
}

// OK reports whether every expectation held.
func (r Result) OK() bool {
	return len(r.Mismatches) == 0
}

// Separators returns the separators of the case: its own, then the document's,
// then defaults.
func (c *Case) Separators(defaults bem.Separators) bem.Separators {
	switch {
	case c.Expect.Separators != nil:
		return c.Expect.Separators.WithDefaults()
	case c.document != nil && c.document.Separators != nil:
		return c.document.Separators.WithDefaults()
	}
	return defaults.WithDefaults()
}

// Run parses the input of the case and checks every expectation.
func (c *Case) Run(defaults bem.Separators) Result {
	result := Result{Case: c}
	mismatch := func(field string, expected, actual any) {
		result.Mismatches = append(result.Mismatches, Mismatch{
			Field:    field,
			Expected: format(expected),
			Actual:   format(actual),
		})
	}

	// structural errors are tolerated, the partial tree is still checked
	root, _ := stylesheet.Parse(c.Input)
	separators := c.Separators(defaults)
	expect := c.Expect

	if expect.Block != nil {
		actual := NoBlock
		if block := bem.GetBlock(root, separators); block != nil {
			actual = block.Name
		}
		if actual != *expect.Block {
			mismatch("block", *expect.Block, actual)
		}
	}

	if expect.Target == "" {
		if expect.Resolved != nil || expect.Entities != nil || expect.Contexts != nil || expect.Chains != nil {
			mismatch("target", "a target", "none")
		}
		return result
	}

	node := FindTarget(root, expect.Target)
	if node == nil {
		mismatch("target", expect.Target, "not found")
		return result
	}

	if expect.Resolved != nil {
		var actual []string
		for _, r := range resolver.ResolveNestedSelector(node) {
			actual = append(actual, r.Resolved)
		}
		if !slices.Equal(expect.Resolved, actual) {
			mismatch("resolved", expect.Resolved, actual)
		}
	}

	if expect.Entities != nil || expect.Contexts != nil {
		var selectors, contexts []string
		for _, e := range bem.ResolveEntities(node, separators) {
			selectors = append(selectors, e.BemSelector)
			contexts = append(contexts, e.SourceContext)
		}
		if expect.Entities != nil && !slices.Equal(expect.Entities, selectors) {
			mismatch("entities", expect.Entities, selectors)
		}
		if expect.Contexts != nil && !slices.Equal(expect.Contexts, contexts) {
			mismatch("contexts", expect.Contexts, contexts)
		}
	}

	if expect.Chains != nil {
		var actual [][]string
		for _, chain := range bem.ResolveChain(node, separators) {
			actual = append(actual, ChainItems(chain))
		}
		if !slices.EqualFunc(expect.Chains, actual, slices.Equal[[]string]) {
			mismatch("chains", expect.Chains, actual)
		}
	}

	return result
}

// RunAll runs every case of the document.
func (d *Document) RunAll(defaults bem.Separators) []Result {
	results := make([]Result, 0, len(d.Cases))
	for _, c := range d.Cases {
		results = append(results, c.Run(defaults))
	}
	return results
}

// ChainItems formats a chain as "type:selector" items.
func ChainItems(chain bem.Chain) []string {
	items := make([]string, 0, len(chain))
	for _, item := range chain {
		items = append(items, item.Type.String()+":"+item.Selector)
	}
	return items
}

// FindTarget returns the first rule whose selector, or at-rule whose params or
// "@name params" text, equals target, in document order.
func FindTarget(root *stylesheet.Root, target string) stylesheet.Node {
	var found stylesheet.Node
	stylesheet.Walk(root, func(n stylesheet.Node) bool {
		switch v := n.(type) {
		case *stylesheet.Rule:
			if v.Selector == target {
				found = v
			}
		case *stylesheet.AtRule:
			if v.Params == target || stylesheet.Describe(v) == target {
				found = v
			}
		}
		return found == nil
	})
	return found
}

func format(v any) string {
	switch value := v.(type) {
	case string:
		return fmt.Sprintf("%q", value)
	case []string:
		quoted := make([]string, 0, len(value))
		for _, s := range value {
			quoted = append(quoted, fmt.Sprintf("%q", s))
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case [][]string:
		items := make([]string, 0, len(value))
		for _, s := range value {
			items = append(items, format(s))
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return fmt.Sprint(v)
}
