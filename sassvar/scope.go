// Package sassvar statically resolves simple Sass variable assignments.
//
// Only a narrow grammar is understood (see Evaluate). Anything else leaves the
// variable unresolved; it is still bound so that it shadows outer bindings.
package sassvar

import (
	"strings"

	"github.com/shibukawa/bemselector/stylesheet"
)

// Binding is a variable binding. Value is meaningful only when Resolved is true.
type Binding struct {
	Name     string
	Value    string
	Resolved bool
	Decl     *stylesheet.Declaration
}

// Scope is one lexical level of variable bindings.
type Scope struct {
	parent *Scope
	node   stylesheet.Container
	vars   map[string]Binding
	order  []string
}

// NewScope creates an empty scope below parent (nil for the global scope).
func NewScope(parent *Scope, node stylesheet.Container) *Scope {
	return &Scope{parent: parent, node: node, vars: make(map[string]Binding)}
}

// Parent returns the enclosing scope
func (s *Scope) Parent() *Scope { return s.parent }

// Node returns the container that declares this scope
func (s *Scope) Node() stylesheet.Container { return s.node }

// Set binds a variable in this scope. The name may be given with or without "$".
func (s *Scope) Set(name string, b Binding) {
	key := normalizeName(name)
	b.Name = key
	if _, ok := s.vars[key]; !ok {
		s.order = append(s.order, key)
	}
	s.vars[key] = b
}

// Lookup finds the nearest binding of name. Inner bindings shadow outer ones
// even when they are unresolved.
func (s *Scope) Lookup(name string) (Binding, bool) {
	key := normalizeName(name)
	for current := s; current != nil; current = current.parent {
		if b, ok := current.vars[key]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Value returns the resolved value of name.
func (s *Scope) Value(name string) (string, bool) {
	b, ok := s.Lookup(name)
	if !ok || !b.Resolved {
		return "", false
	}
	return b.Value, true
}

// Local returns the bindings declared in this scope, in declaration order.
func (s *Scope) Local() []Binding {
	result := make([]Binding, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.vars[name])
	}
	return result
}

func (s *Scope) global() *Scope {
	current := s
	for current.parent != nil {
		current = current.parent
	}
	return current
}

// normalizeName strips "$" and treats "_" and "-" as the same character like Sass does.
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "$"), "_", "-")
}

// ResolveInScope evaluates all direct variable declarations of node. context is
// the selector "&" refers to inside node, nil when there is none.
func ResolveInScope(node stylesheet.Container, context *string, parent *Scope) *Scope {
	return ResolveInScopeBefore(node, nil, context, parent)
}

// ResolveInScopeBefore is like ResolveInScope but only sees the declarations of
// node that precede child. child may be any descendant of node; nil means all.
func ResolveInScopeBefore(node stylesheet.Container, child stylesheet.Node, context *string, parent *Scope) *Scope {
	scope := NewScope(parent, node)
	stop := directChild(node, child)

	for _, n := range node.Children() {
		if stop != nil && n == stop {
			break
		}
		decl, ok := n.(*stylesheet.Declaration)
		if !ok || !decl.IsVariable() {
			continue
		}

		value, flags := cutFlags(decl.Value)
		if flags.isDefault {
			if _, exists := scope.Value(decl.Prop); exists {
				continue
			}
		}
		resolved, ok := Evaluate(value, scope, context)
		target := scope
		if flags.isGlobal {
			target = scope.global()
		}
		target.Set(decl.Prop, Binding{Value: resolved, Resolved: ok, Decl: decl})
	}
	return scope
}

// directChild returns the child of node that contains descendant.
func directChild(node stylesheet.Container, descendant stylesheet.Node) stylesheet.Node {
	if descendant == nil {
		return nil
	}
	current := descendant
	for {
		p := current.Parent()
		if p == nil {
			return nil
		}
		if p == node {
			return current
		}
		current = p
	}
}

type valueFlags struct {
	isDefault bool
	isGlobal  bool
}

// cutFlags removes trailing !default / !global flags.
func cutFlags(value string) (string, valueFlags) {
	var flags valueFlags
	value = strings.TrimSpace(value)
	for {
		idx := strings.LastIndex(value, "!")
		if idx < 0 {
			return value, flags
		}
		switch strings.ToLower(strings.TrimSpace(value[idx+1:])) {
		case "default":
			flags.isDefault = true
		case "global":
			flags.isGlobal = true
		default:
			return value, flags
		}
		value = strings.TrimSpace(value[:idx])
	}
}
