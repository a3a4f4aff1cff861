package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/bemselector"
)

func newTestContext(t *testing.T, format string) (*Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	return &Context{
		Config: filepath.Join(t.TempDir(), "missing.yaml"),
		Quiet:  true,
		Format: format,
		Stdout: &out,
	}, &out
}

func writeStylesheet(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "style.scss")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestResolveCmd(t *testing.T) {
	file := writeStylesheet(t, ".block { &__el, &--mod {} }")

	t.Run("json", func(t *testing.T) {
		ctx, out := newTestContext(t, bemselector.FormatJSON)
		require.NoError(t, (&ResolveCmd{File: file}).Run(ctx))

		var report resolveReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, []ruleResolution{
			{Selector: ".block", Position: "1:1", Resolved: []string{".block"}},
			{Selector: "&__el, &--mod", Position: "1:10", Resolved: []string{".block__el", ".block--mod"}},
		}, report.Rules)
	})

	t.Run("text", func(t *testing.T) {
		ctx, out := newTestContext(t, "")
		require.NoError(t, (&ResolveCmd{File: file}).Run(ctx))
		assert.Contains(t, out.String(), "→ .block--mod")
	})

	t.Run("xml", func(t *testing.T) {
		ctx, out := newTestContext(t, bemselector.FormatXML)
		require.NoError(t, (&ResolveCmd{File: file}).Run(ctx))
		assert.Contains(t, out.String(), "<resolved>.block__el</resolved>")
		assert.Contains(t, out.String(), `<rule selector="&amp;__el, &amp;--mod" position="1:10">`)
	})
}

func TestEntitiesCmd(t *testing.T) {
	file := writeStylesheet(t, ".block { &__el {} }")
	ctx, out := newTestContext(t, bemselector.FormatJSON)
	require.NoError(t, (&EntitiesCmd{File: file}).Run(ctx))

	var report entitiesReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Equal(t, 2, len(report.Rules))

	el := report.Rules[1].Entities[0]
	assert.Equal(t, ".block__el", el.Selector)
	assert.True(t, el.Present)
	assert.Equal(t, []partReport{
		{Type: "block", Value: "block"},
		{Type: "element", Value: "el", Position: "1:13"},
	}, el.Parts)
}

func TestChainCmd(t *testing.T) {
	file := writeStylesheet(t, ".block {\n  &__el {\n    &--on {}\n  }\n}\n")

	t.Run("target", func(t *testing.T) {
		ctx, out := newTestContext(t, bemselector.FormatYAML)
		require.NoError(t, (&ChainCmd{File: file, Target: "&--on"}).Run(ctx))

		var report chainReport
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
		require.Equal(t, 1, len(report.Chains))
		assert.Equal(t, []chainItemReport{
			{Type: "modifierName", Selector: ".block__el--on", Rule: "&--on", Position: "3:5"},
			{Type: "element", Selector: ".block__el", Rule: "&__el", Position: "2:3"},
			{Type: "block", Selector: ".block", Rule: ".block", Position: "1:1"},
		}, report.Chains[0].Items)
	})

	t.Run("missing target", func(t *testing.T) {
		ctx, _ := newTestContext(t, "")
		err := (&ChainCmd{File: file, Target: ".nope"}).Run(ctx)
		assert.IsError(t, err, ErrTargetNotFound)
	})
}

func TestBlockCmd(t *testing.T) {
	ctx, out := newTestContext(t, bemselector.FormatYAML)
	require.NoError(t, (&BlockCmd{File: writeStylesheet(t, "html {} .card { &__title {} }")}).Run(ctx))
	assert.Contains(t, out.String(), "block: card")

	ctx, out = newTestContext(t, "")
	require.NoError(t, (&BlockCmd{File: writeStylesheet(t, ".a, .b {}")}).Run(ctx))
	assert.Contains(t, out.String(), "no block")
}

func TestDeclarationsCmd(t *testing.T) {
	file := writeStylesheet(t, "$x: 1; .a { color: red; @media (w) { margin: 0 !important; } }")
	ctx, out := newTestContext(t, bemselector.FormatJSON)
	require.NoError(t, (&DeclarationsCmd{File: file}).Run(ctx))

	var report declarationsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Equal(t, 2, len(report.Blocks))
	assert.Equal(t, "root", report.Blocks[0].Owner)
	assert.Equal(t, "$x", report.Blocks[0].Declarations[0].Prop)

	a := report.Blocks[1]
	assert.Equal(t, ".a", a.Owner)
	require.Equal(t, 2, len(a.Declarations))
	assert.Equal(t, "margin", a.Declarations[1].Prop)
	assert.True(t, a.Declarations[1].Important)
	assert.Equal(t, []string{"@media (w)"}, a.Declarations[1].AtRules)

	ctx, out = newTestContext(t, bemselector.FormatJSON)
	require.NoError(t, (&DeclarationsCmd{File: file, NoAtRules: true, OnlyVisible: true}).Run(ctx))
	report = declarationsReport{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Equal(t, 1, len(report.Blocks))
	assert.Equal(t, 1, len(report.Blocks[0].Declarations))
}

func TestVerifyCmd(t *testing.T) {
	t.Run("passing documents", func(t *testing.T) {
		ctx, out := newTestContext(t, "")
		ctx.Quiet = false
		require.NoError(t, (&VerifyCmd{Paths: []string{"../../casedoc/testdata/cases"}}).Run(ctx))
		assert.Contains(t, out.String(), "0 failed")
	})

	t.Run("failing document", func(t *testing.T) {
		doc := filepath.Join(t.TempDir(), "failing.md")
		content := strings.Join([]string{
			"# Failing",
			"",
			"## Wrong block",
			"",
			"```css",
			".a {}",
			"```",
			"",
			"```yaml",
			`block: "b"`,
			"```",
		}, "\n")
		require.NoError(t, os.WriteFile(doc, []byte(content), 0o644))

		ctx, out := newTestContext(t, "")
		err := (&VerifyCmd{Paths: []string{doc}}).Run(ctx)
		assert.IsError(t, err, ErrVerificationFailed)
		assert.Contains(t, out.String(), `block: expected "b", got "a"`)
	})

	t.Run("no documents", func(t *testing.T) {
		ctx, _ := newTestContext(t, "")
		err := (&VerifyCmd{}).Run(ctx)
		assert.IsError(t, err, ErrNoCaseDocuments)
	})

	t.Run("missing path", func(t *testing.T) {
		ctx, _ := newTestContext(t, "")
		err := (&VerifyCmd{Paths: []string{"does-not-exist.md"}}).Run(ctx)
		assert.IsError(t, err, ErrInputFileNotExist)
	})
}

func TestUnknownFormat(t *testing.T) {
	ctx, _ := newTestContext(t, "table")
	err := (&ResolveCmd{File: writeStylesheet(t, ".a {}")}).Run(ctx)
	assert.IsError(t, err, bemselector.ErrUnknownFormat)
}

func TestVersionCmd(t *testing.T) {
	ctx, out := newTestContext(t, "")
	require.NoError(t, (&VersionCmd{}).Run(ctx))
	assert.Equal(t, "bemselector v0.1.0\n", out.String())
}
