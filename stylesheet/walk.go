package stylesheet

import "iter"

// Walk visits every descendant of c depth-first in document order.
// Returning false from fn stops the walk.
func Walk(c Container, fn func(Node) bool) {
	walk(c, fn)
}

func walk(c Container, fn func(Node) bool) bool {
	for _, child := range c.Children() {
		if !fn(child) {
			return false
		}
		if sub, ok := child.(Container); ok {
			if !walk(sub, fn) {
				return false
			}
		}
	}
	return true
}

// Rules returns an iterator over all rules below c.
func Rules(c Container) iter.Seq[*Rule] {
	return func(yield func(*Rule) bool) {
		walk(c, func(n Node) bool {
			if r, ok := n.(*Rule); ok {
				return yield(r)
			}
			return true
		})
	}
}

// AtRules returns an iterator over all at-rules below c.
func AtRules(c Container) iter.Seq[*AtRule] {
	return func(yield func(*AtRule) bool) {
		walk(c, func(n Node) bool {
			if a, ok := n.(*AtRule); ok {
				return yield(a)
			}
			return true
		})
	}
}

// Declarations returns an iterator over all declarations below c.
func Declarations(c Container) iter.Seq[*Declaration] {
	return func(yield func(*Declaration) bool) {
		walk(c, func(n Node) bool {
			if d, ok := n.(*Declaration); ok {
				return yield(d)
			}
			return true
		})
	}
}

// DeclarationWithPath is a declaration together with the pure at-rules
// between it and the listed container, outermost first.
type DeclarationWithPath struct {
	Declaration *Declaration
	AtRulePath  []*AtRule
}

// ListDeclarations returns the direct declaration children of c. When
// includePureAtRules is set, declarations nested in pure at-rules are listed too.
func ListDeclarations(c Container, includePureAtRules bool) []*Declaration {
	withPath := ListDeclarationsWithPath(c, includePureAtRules)
	result := make([]*Declaration, 0, len(withPath))
	for _, d := range withPath {
		result = append(result, d.Declaration)
	}
	return result
}

// ListDeclarationsWithPath is like ListDeclarations but also reports the at-rule path.
func ListDeclarationsWithPath(c Container, includePureAtRules bool) []DeclarationWithPath {
	var result []DeclarationWithPath
	collectDeclarations(c, includePureAtRules, nil, &result)
	return result
}

func collectDeclarations(c Container, includePureAtRules bool, path []*AtRule, result *[]DeclarationWithPath) {
	for _, child := range c.Children() {
		switch v := child.(type) {
		case *Declaration:
			*result = append(*result, DeclarationWithPath{
				Declaration: v,
				AtRulePath:  append([]*AtRule(nil), path...),
			})
		case *AtRule:
			if includePureAtRules && v.HasBody && IsPureAtRule(v) {
				collectDeclarations(v, includePureAtRules, append(path, v), result)
			}
		}
	}
}

// IsPureAtRule reports whether the at-rule contains no rules, directly or transitively.
func IsPureAtRule(a *AtRule) bool {
	for range Rules(a) {
		return false
	}
	return true
}

// Ancestors returns an iterator over the containers above n, nearest first.
// The root is included.
func Ancestors(n Node) iter.Seq[Container] {
	return func(yield func(Container) bool) {
		for p := n.Parent(); p != nil; p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}
