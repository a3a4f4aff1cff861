package bem

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/bemselector/testhelper"
	"github.com/shibukawa/bemselector/tokenizer"
)

func TestParseEntity(t *testing.T) {
	name := ".block__element--modifier--value"
	parts, ok := ParseEntity(name, DefaultSeparators())
	assert.True(t, ok)

	assert.Equal(t, Part{Type: BlockPart, Value: "block", Separator: ".", Selector: ".block", Range: Range{Start: 1, End: 6}, SourceRange: &Range{Start: 1, End: 6}}, *parts.Block)
	assert.Equal(t, "__element", parts.Element.Selector)
	assert.Equal(t, Range{Start: 8, End: 15}, parts.Element.Range)
	assert.Equal(t, "modifier", parts.ModifierName.Value)
	assert.Equal(t, Range{Start: 17, End: 25}, parts.ModifierName.Range)
	assert.Equal(t, "value", parts.ModifierValue.Value)
	assert.Equal(t, "--", parts.ModifierValue.Separator)

	// every part slices back to itself
	for _, part := range parts.List() {
		assert.Equal(t, part.Value, name[part.SourceRange.Start:part.SourceRange.End])
	}
	assert.Equal(t, name, parts.Selector())
	assert.Equal(t, ".block__element", parts.SelectorUpTo(ElementPart))
	assert.Equal(t, ModifierValuePart, parts.MostSpecific().Type)
}

func TestParseEntityVariants(t *testing.T) {
	tests := []struct {
		name       string
		class      string
		separators Separators
		expected   []string
	}{
		{
			name:       "block only" + testhelper.GetCaller(t),
			class:      "block",
			separators: DefaultSeparators(),
			expected:   []string{"block"},
		},
		{
			name:       "modifier without element" + testhelper.GetCaller(t),
			class:      ".block--mod",
			separators: DefaultSeparators(),
			expected:   []string{"block", "mod"},
		},
		{
			name:       "hyphenated modifier name" + testhelper.GetCaller(t),
			class:      ".block__element--modifier-name--modifier-value",
			separators: DefaultSeparators(),
			expected:   []string{"block", "element", "modifier-name", "modifier-value"},
		},
		{
			name:       "custom separators" + testhelper.GetCaller(t),
			class:      ".block-el_mod_val",
			separators: Separators{Element: "-", Modifier: "_", ModifierValue: "_"},
			expected:   []string{"block", "el", "mod", "val"},
		},
		{
			name:       "empty separators fall back to defaults" + testhelper.GetCaller(t),
			class:      ".a__b",
			separators: Separators{},
			expected:   []string{"a", "b"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parts, ok := ParseEntity(test.class, test.separators)
			assert.True(t, ok)
			var values []string
			for _, part := range parts.List() {
				values = append(values, part.Value)
			}
			assert.Equal(t, test.expected, values)
		})
	}
}

func TestParseEntityEmpty(t *testing.T) {
	_, ok := ParseEntity("", DefaultSeparators())
	assert.False(t, ok)
	_, ok = ParseEntity(".", DefaultSeparators())
	assert.False(t, ok)
}

func TestSeparatorsValidate(t *testing.T) {
	assert.NoError(t, DefaultSeparators().Validate())
	assert.IsError(t, Separators{Element: "--", Modifier: "--", ModifierValue: "_"}.Validate(), ErrInvalidSeparators)
	assert.IsError(t, Separators{Element: "__"}.Validate(), ErrInvalidSeparators)
}

func TestExtractCandidateSegments(t *testing.T) {
	segments := ExtractCandidateSegments(tokenizer.Tokenize("div > .a:hover .b, span"))
	assert.Equal(t, 2, len(segments))
	assert.Equal(t, 6, segments[0].Start())
	assert.Equal(t, 2, len(segments[0].Nodes))
	assert.Equal(t, 15, segments[1].Start())
	assert.Equal(t, "", segments[1].Pseudo)
}

func TestExtractCandidateSegmentsInPseudo(t *testing.T) {
	segments := ExtractCandidateSegments(tokenizer.Tokenize(".foo:is(.bar:not(.baz)).foo--mod.component"))
	assert.Equal(t, 3, len(segments))

	var (
		starts  []int
		pseudos []string
	)
	for _, s := range segments {
		starts = append(starts, s.Start())
		pseudos = append(pseudos, s.Pseudo)
	}
	assert.Equal(t, []int{0, 8, 17}, starts)
	assert.Equal(t, []string{"", ":is", ":not"}, pseudos)
	assert.Equal(t, 4, len(segments[0].Nodes))
}
