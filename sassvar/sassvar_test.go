package sassvar

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/bemselector/stylesheet"
)

func ptr(s string) *string { return &s }

func TestEvaluate(t *testing.T) {
	scope := NewScope(nil, nil)
	scope.Set("$b", Binding{Value: ".block", Resolved: true})
	scope.Set("$broken", Binding{})
	scope.Set("$snake_case", Binding{Value: ".snake", Resolved: true})

	tests := []struct {
		name     string
		expr     string
		context  *string
		expected string
		ok       bool
	}{
		{name: "bare word", expr: ".block", expected: ".block", ok: true},
		{name: "quoted string", expr: `".block"`, expected: ".block", ok: true},
		{name: "single quoted string", expr: `'.block'`, expected: ".block", ok: true},
		{name: "ampersand", expr: "&", context: ptr(".parent"), expected: ".parent", ok: true},
		{name: "interpolated ampersand", expr: "#{&}", context: ptr(".parent"), expected: ".parent", ok: true},
		{name: "ampersand without context", expr: "&", ok: false},
		{name: "variable", expr: "$b", expected: ".block", ok: true},
		{name: "unresolved variable", expr: "$broken", ok: false},
		{name: "unknown variable", expr: "$missing", ok: false},
		{name: "interpolation in word", expr: "#{$b}__link", expected: ".block__link", ok: true},
		{name: "ampersand suffix", expr: "&__el", context: ptr(".block"), expected: ".block__el", ok: true},
		{name: "plus concatenation", expr: `$b + "__el"`, expected: ".block__el", ok: true},
		{name: "plus without spaces", expr: `$b+'--mod'`, expected: ".block--mod", ok: true},
		{name: "space separated", expr: "& .child", context: ptr(".block"), expected: ".block .child", ok: true},
		{name: "interpolation in string", expr: `"#{$b}__x"`, expected: ".block__x", ok: true},
		{name: "dash and underscore are the same", expr: "$snake-case", expected: ".snake", ok: true},
		{name: "default flag", expr: ".x !default", expected: ".x", ok: true},
		{name: "function call", expr: "darken($b, 10%)", ok: false},
		{name: "arithmetic", expr: "$b * 2", ok: false},
		{name: "subtraction", expr: "a - b", ok: false},
		{name: "dangling plus", expr: "$b +", ok: false},
		{name: "unterminated string", expr: `"abc`, ok: false},
		{name: "expression interpolation", expr: "#{$b + 'x'}", ok: false},
		{name: "empty", expr: "  ", ok: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, ok := Evaluate(test.expr, scope, test.context)
			assert.Equal(t, test.ok, ok)
			if test.ok {
				assert.Equal(t, test.expected, actual)
			}
		})
	}
}

func findRule(t *testing.T, root *stylesheet.Root, selector string) *stylesheet.Rule {
	t.Helper()
	for r := range stylesheet.Rules(root) {
		if r.Selector == selector {
			return r
		}
	}
	t.Fatalf("rule %q not found", selector)
	return nil
}

func TestResolveInScope(t *testing.T) {
	root := stylesheet.MustParse(`
$b: .block;
$link: #{$b}__link;
$a: #{$c};
$c: #{$a};
.block {
  $self: &;
  $b: .inner;
  &__a { $local: .local-a; }
  &__b { color: red; }
}`)

	global := ResolveInScope(root, nil, nil)
	v, ok := global.Value("$link")
	assert.True(t, ok)
	assert.Equal(t, ".block__link", v)

	// cycles never resolve
	_, ok = global.Value("$a")
	assert.False(t, ok)
	_, ok = global.Value("$c")
	assert.False(t, ok)

	block := findRule(t, root, ".block")
	local := ResolveInScope(block, ptr(".block"), global)
	v, ok = local.Value("$self")
	assert.True(t, ok)
	assert.Equal(t, ".block", v)

	// shadowing
	v, _ = local.Value("$b")
	assert.Equal(t, ".inner", v)
	v, _ = global.Value("$b")
	assert.Equal(t, ".block", v)

	// siblings do not see each other's bindings
	a := findRule(t, root, "&__a")
	b := findRule(t, root, "&__b")
	scopeA := ResolveInScope(a, ptr(".block__a"), local)
	scopeB := ResolveInScope(b, ptr(".block__b"), local)
	_, ok = scopeA.Value("$local")
	assert.True(t, ok)
	_, ok = scopeB.Lookup("$local")
	assert.False(t, ok)

	var names []string
	for _, binding := range local.Local() {
		names = append(names, binding.Name)
	}
	assert.Equal(t, []string{"self", "b"}, names)
}

func TestResolveInScopeBefore(t *testing.T) {
	root := stylesheet.MustParse(`
.block {
  $early: .early;
  &__el { color: red; }
  $late: .late;
}`)
	block := findRule(t, root, ".block")
	el := findRule(t, root, "&__el")

	scope := ResolveInScopeBefore(block, el, ptr(".block"), nil)
	_, ok := scope.Value("$early")
	assert.True(t, ok)
	_, ok = scope.Lookup("$late")
	assert.False(t, ok)
}

func TestUnresolvedShadowsOuter(t *testing.T) {
	root := stylesheet.MustParse(`
$x: .outer;
.a { $x: fn(1); }`)
	global := ResolveInScope(root, nil, nil)
	inner := ResolveInScope(findRule(t, root, ".a"), ptr(".a"), global)

	b, ok := inner.Lookup("$x")
	assert.True(t, ok)
	assert.False(t, b.Resolved)
	_, ok = inner.Value("$x")
	assert.False(t, ok)
}

func TestFlags(t *testing.T) {
	root := stylesheet.MustParse(`
$x: .first;
$x: .second !default;
.a { $g: .global !global; }`)
	global := ResolveInScope(root, nil, nil)
	v, _ := global.Value("$x")
	assert.Equal(t, ".first", v)

	ResolveInScope(findRule(t, root, ".a"), ptr(".a"), global)
	v, ok := global.Value("$g")
	assert.True(t, ok)
	assert.Equal(t, ".global", v)
}
