package bem

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/bemselector/testhelper"
)

func TestGetBlock(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "consistent block" + testhelper.GetCaller(t),
			src:      ".block--modifier, .block { color: red; }",
			expected: "block",
		},
		{
			name:     "inside layer" + testhelper.GetCaller(t),
			src:      "@layer base { html {} .card__title {} }",
			expected: "card",
		},
		{
			name:     "inside media" + testhelper.GetCaller(t),
			src:      "@media (w) { .menu {} } .other {}",
			expected: "menu",
		},
		{
			name:     "rules without classes are skipped" + testhelper.GetCaller(t),
			src:      ":root { --x: 1; } .menu { &__item {} }",
			expected: "menu",
		},
		{
			name:     "other at-rules are not searched" + testhelper.GetCaller(t),
			src:      "@supports (display: grid) { .a {} } .b {}",
			expected: "b",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			block := GetBlock(testhelper.Parse(t, test.src), DefaultSeparators())
			assert.NotZero(t, block)
			assert.Equal(t, test.expected, block.Name)
			assert.Equal(t, "."+test.expected, block.Selector)
		})
	}
}

func TestGetBlockInconsistent(t *testing.T) {
	assert.Zero(t, GetBlock(testhelper.Parse(t, ".foo-component, .another-one {}"), DefaultSeparators()))
	assert.Zero(t, GetBlock(testhelper.Parse(t, "html { body {} }"), DefaultSeparators()))
}
