// Package resolver expands nested CSS/SCSS selectors into fully qualified
// selectors and links the resulting selector nodes back to their source.
package resolver

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/shibukawa/bemselector/nesting"
	"github.com/shibukawa/bemselector/sassvar"
	"github.com/shibukawa/bemselector/stylesheet"
)

// ResolvedSelector is one fully expanded selector of a rule.
type ResolvedSelector struct {
	// Source is the unresolved branch as written.
	Source string
	// Resolved is the fully expanded selector.
	Resolved string
	// Inject is what "&" was replaced with, empty when nothing was injected.
	Inject string
	// Substitutions maps "&", "#{&}" and "#{$var}" tokens of Source to their values.
	// It is nil when nothing was substituted.
	Substitutions map[string]string
	// Offset is the offset of Source in the full selector string.
	Offset int
	// Fragments map ranges of Resolved back to Source.
	Fragments []Fragment
	// Path is the nesting path the selector was resolved from.
	Path nesting.Path
}

// SourceRange maps a range of Resolved to the range of Source it was written at.
// Only literal fragments count: text injected through "&" or variables has no
// direct source. ok is false when no literal fragment overlaps r.
func (s ResolvedSelector) SourceRange(r Range) (Range, bool) {
	var (
		result Range
		found  bool
	)
	for _, f := range s.Fragments {
		if f.Kind != LiteralFragment {
			continue
		}
		overlap, ok := f.Resolved.intersect(r)
		if !ok {
			continue
		}
		mapped := overlap.Shift(f.Source.Start - f.Resolved.Start)
		if !found {
			result = mapped
			found = true
			continue
		}
		result.Start = min(result.Start, mapped.Start)
		result.End = max(result.End, mapped.End)
	}
	return result, found
}

// ToResolved maps an offset of Source to the corresponding offset of Resolved.
func (s ResolvedSelector) ToResolved(offset int) int {
	for _, f := range s.Fragments {
		if f.Kind == ContextFragment {
			continue
		}
		if offset >= f.Source.Start && offset < f.Source.End {
			if f.Kind == LiteralFragment {
				return f.Resolved.Start + offset - f.Source.Start
			}
			return f.Resolved.Start
		}
	}
	return len(s.Resolved) - len(s.Source) + offset
}

// ResolveNestedSelector resolves every selector of a rule or selector at-rule.
func ResolveNestedSelector(node stylesheet.Node) []ResolvedSelector {
	text, _, ok := stylesheet.SelectorOf(node)
	if !ok {
		return nil
	}
	return ResolveNestedSelectorFrom(node, text)
}

// ResolveNestedSelectorFrom is like ResolveNestedSelector but resolves source as if it
// were the selector of node.
func ResolveNestedSelectorFrom(node stylesheet.Node, source string) []ResolvedSelector {
	paths := nesting.BuildTreesFrom(node, source)
	if len(paths) == 0 {
		return nil
	}
	ancestors := containers(node)

	var result []ResolvedSelector
	seen := make(map[string]bool)
	for _, path := range paths {
		resolved := resolvePath(path, ancestors)
		key := dedupeKey(resolved)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, resolved)
	}
	return result
}

// containers returns the ancestors of node, outermost (root) first.
func containers(node stylesheet.Node) []stylesheet.Container {
	var result []stylesheet.Container
	depth := 0
	for p := node.Parent(); p != nil && depth < nesting.MaxDepth; p = p.Parent() {
		result = append(result, p)
		depth++
	}
	slices.Reverse(result)
	return result
}

// state is the running reduction of a nesting path
type state struct {
	context    string
	hasContext bool
	// detach is set by a bare @at-root: the implicit parent prefix is dropped
	// while "&" keeps referring to the parent.
	detach bool
}

func (s *state) contextPtr() *string {
	if !s.hasContext {
		return nil
	}
	context := s.context
	return &context
}

// apply reduces one level into the running context and returns how it was built.
func (s *state) apply(item nesting.Item, scope *sassvar.Scope) (ex expansion, prefixed bool) {
	if item.Type == nesting.AtRootItem && item.Value == "" {
		s.detach = true
		return expansion{}, false
	}

	ex = expand(item.Value, scope, s.contextPtr())
	switch {
	case ex.hasNesting && s.hasContext:
		s.context = ex.text
	case s.hasContext && !s.detach && item.Type != nesting.AtRootItem:
		prefixed = true
		s.context = s.context + " " + ex.text
	default:
		s.context = ex.text
	}
	s.hasContext = true
	s.detach = false
	return ex, prefixed
}

func resolvePath(path nesting.Path, ancestors []stylesheet.Container) ResolvedSelector {
	leaf := path.Leaf()
	st := &state{}

	var scope *sassvar.Scope
	index := 0
	for i, c := range ancestors {
		if index < len(path)-1 && path[index].Node == stylesheet.Node(c) {
			st.apply(path[index], scope)
			index++
		}
		if _, isRoot := c.(*stylesheet.Root); isRoot {
			scope = sassvar.ResolveInScope(c, nil, scope)
			continue
		}
		var next stylesheet.Node = leaf.Node
		if i+1 < len(ancestors) {
			next = ancestors[i+1]
		}
		scope = sassvar.ResolveInScopeBefore(c, next, st.contextPtr(), scope)
	}

	parent := st.context
	hadContext := st.hasContext
	ex, prefixed := st.apply(leaf, scope)

	result := ResolvedSelector{
		Source:        leaf.Value,
		Resolved:      st.context,
		Substitutions: ex.substitutions,
		Offset:        leaf.Offset,
		Path:          path,
	}
	if ex.hasNesting && hadContext {
		result.Inject = parent
	}
	if prefixed {
		shift := len(parent) + 1
		result.Fragments = append(result.Fragments, Fragment{
			Kind:     ContextFragment,
			Resolved: Range{Start: 0, End: shift},
		})
		for _, f := range ex.fragments {
			f.Resolved = f.Resolved.Shift(shift)
			result.Fragments = append(result.Fragments, f)
		}
	} else {
		result.Fragments = ex.fragments
	}
	return result
}

func dedupeKey(r ResolvedSelector) string {
	var builder strings.Builder
	builder.WriteString(r.Source)
	builder.WriteByte(0)
	builder.WriteString(r.Resolved)
	builder.WriteByte(0)
	builder.WriteString(strconv.Itoa(r.Offset))
	for _, k := range slices.Sorted(maps.Keys(r.Substitutions)) {
		builder.WriteByte(0)
		builder.WriteString(k)
		builder.WriteByte('=')
		builder.WriteString(r.Substitutions[k])
	}
	return builder.String()
}
