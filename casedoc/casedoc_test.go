package casedoc

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/testhelper"
)

func TestCaseDocuments(t *testing.T) {
	files, err := filepath.Glob("testdata/cases/*.md")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		doc, err := ParseFile(file)
		require.NoError(t, err, file)

		for _, c := range doc.Cases {
			t.Run(filepath.Base(file)+"/"+c.Name, func(t *testing.T) {
				result := c.Run(bem.DefaultSeparators())
				for _, m := range result.Mismatches {
					t.Errorf("line %d: %s", c.Line, m)
				}
			})
		}
	}
}

func TestParse(t *testing.T) {
	doc, err := ParseFile("testdata/cases/bem.md")
	require.NoError(t, err)

	assert.Equal(t, "BEM entities and chains", doc.Title)
	assert.Equal(t, &bem.Separators{Element: "__", Modifier: "--", ModifierValue: "--"}, doc.Separators)
	assert.Equal(t, 6, len(doc.Cases))

	first := doc.Cases[0]
	assert.Equal(t, "Pseudo-class contexts", first.Name)
	assert.Equal(t, 9, first.Line)
	assert.Equal(t, "css", first.Language)
	assert.Equal(t, ".foo:is(.bar:not(.baz)).foo--mod.component {}", first.Input)
	assert.Equal(t, []string{"", ":is", ":not", "modifier", "entity"}, first.Expect.Contexts)

	custom := doc.Cases[5]
	assert.Equal(t, bem.Separators{Element: "-", Modifier: "_", ModifierValue: "_"}, custom.Separators(bem.DefaultSeparators()))
	assert.Equal(t, bem.DefaultSeparators(), first.Separators(bem.Separators{Element: "x"}))
}

func TestParseWithoutFrontMatter(t *testing.T) {
	doc, err := Parse(strings.NewReader(testhelper.TrimIndent(t, `
		# Title

		## One

		`+"```scss"+`
		.a { .b {} }
		`+"```"+`
	`)))
	require.NoError(t, err)
	assert.Equal(t, "Title", doc.Title)
	assert.Equal(t, 1, len(doc.Cases))
	assert.Equal(t, 3, doc.Cases[0].Line)
	assert.Equal(t, ".a { .b {} }", doc.Cases[0].Input)
	assert.Equal(t, bem.DefaultSeparators(), doc.Cases[0].Separators(bem.Separators{}))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		err  error
	}{
		{
			name: "case without input" + testhelper.GetCaller(t),
			file: "testdata/invalid/no-input.md",
			err:  ErrInvalidCase,
		},
		{
			name: "unknown expectation" + testhelper.GetCaller(t),
			file: "testdata/invalid/unknown-field.md",
			err:  ErrInvalidCase,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseFile(test.file)
			assert.IsError(t, err, test.err)
		})
	}

	_, err := Parse(strings.NewReader("# Empty\n"))
	assert.IsError(t, err, ErrNoCases)

	_, err = Parse(strings.NewReader("---\ntitle: x\n"))
	assert.IsError(t, err, ErrInvalidFrontMatter)
}

func TestRunMismatches(t *testing.T) {
	doc, err := Parse(strings.NewReader(testhelper.TrimIndent(t, `
		# Failing

		## Wrong

		`+"```scss"+`
		.block { &__el {} }
		`+"```"+`

		`+"```yaml"+`
		target: "&__el"
		resolved: [".block__other"]
		block: "-"
		`+"```"+`

		## Missing target

		`+"```css"+`
		.a {}
		`+"```"+`

		`+"```yaml"+`
		target: ".zzz"
		entities: []
		`+"```"+`
	`)))
	require.NoError(t, err)

	results := doc.RunAll(bem.DefaultSeparators())
	require.Equal(t, 2, len(results))

	assert.False(t, results[0].OK())
	assert.Equal(t, []Mismatch{
		{Field: "block", Expected: `"-"`, Actual: `"block"`},
		{Field: "resolved", Expected: `[".block__other"]`, Actual: `[".block__el"]`},
	}, results[0].Mismatches)

	assert.Equal(t, []Mismatch{
		{Field: "target", Expected: `".zzz"`, Actual: `"not found"`},
	}, results[1].Mismatches)
}
