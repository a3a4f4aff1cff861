package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/fatih/color"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/casedoc"
)

// VerifyCmd represents the verify command
type VerifyCmd struct {
	Paths []string `arg:"" optional:"" help:"Case documents or directories of *.md files (defaults to cases from config)"`
}

type verifyReport struct {
	Documents []documentResult `json:"documents" yaml:"documents"`
	Passed    int              `json:"passed" yaml:"passed"`
	Failed    int              `json:"failed" yaml:"failed"`
}

type documentResult struct {
	File  string       `json:"file" yaml:"file"`
	Title string       `json:"title,omitempty" yaml:"title,omitempty"`
	Cases []caseResult `json:"cases" yaml:"cases"`
}

type caseResult struct {
	Name       string   `json:"name" yaml:"name"`
	Line       int      `json:"line" yaml:"line"`
	OK         bool     `json:"ok" yaml:"ok"`
	Mismatches []string `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// Run executes the verify command
func (cmd *VerifyCmd) Run(ctx *Context) error {
	config, err := ctx.Settings()
	if err != nil {
		return err
	}

	paths := cmd.Paths
	if len(paths) == 0 {
		paths = config.Cases
	}

	files, err := collectDocuments(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoCaseDocuments
	}

	r, err := verifyDocuments(ctx, files, config.Separators)
	if err != nil {
		return err
	}

	if !ctx.Quiet || r.Failed > 0 {
		if err := render(ctx, config.Output.Format, r); err != nil {
			return err
		}
	}

	if r.Failed > 0 {
		return fmt.Errorf("%w: %d of %d cases failed", ErrVerificationFailed, r.Failed, r.Failed+r.Passed)
	}
	return nil
}

// collectDocuments expands directories into their *.md files
func collectDocuments(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
		}
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(path, "*.md"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func verifyDocuments(ctx *Context, files []string, separators bem.Separators) (*verifyReport, error) {
	r := &verifyReport{Documents: []documentResult{}}
	for _, file := range files {
		if ctx.Verbose {
			color.New(color.FgBlue).Fprintf(ctx.Stdout, "Verifying %s\n", file)
		}

		doc, err := casedoc.ParseFile(file)
		if err != nil {
			return nil, err
		}

		result := documentResult{File: file, Title: doc.Title}
		for _, outcome := range doc.RunAll(separators) {
			c := caseResult{
				Name: outcome.Case.Name,
				Line: outcome.Case.Line,
				OK:   outcome.OK(),
			}
			for _, m := range outcome.Mismatches {
				c.Mismatches = append(c.Mismatches, m.String())
			}
			if c.OK {
				r.Passed++
			} else {
				r.Failed++
			}
			result.Cases = append(result.Cases, c)
		}
		r.Documents = append(r.Documents, result)
	}
	return r, nil
}

func (r *verifyReport) writeText(w io.Writer) {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	for _, doc := range r.Documents {
		heading.Fprintln(w, doc.File)
		for _, c := range doc.Cases {
			if c.OK {
				pass.Fprintf(w, "  ✓ %s\n", c.Name)
				continue
			}
			fail.Fprintf(w, "  ✗ %s (line %d)\n", c.Name, c.Line)
			for _, m := range c.Mismatches {
				fmt.Fprintf(w, "      %s\n", m)
			}
		}
	}

	summary := pass
	if r.Failed > 0 {
		summary = fail
	}
	summary.Fprintf(w, "%d passed, %d failed\n", r.Passed, r.Failed)
}

func (r *verifyReport) writeXML(parent *etree.Element) {
	suites := parent.CreateElement("testsuites")
	for _, doc := range r.Documents {
		suite := suites.CreateElement("testsuite")
		suite.CreateAttr("name", doc.File)
		for _, c := range doc.Cases {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("name", c.Name)
			tc.CreateAttr("line", fmt.Sprint(c.Line))
			for _, m := range c.Mismatches {
				tc.CreateElement("failure").SetText(m)
			}
		}
	}
}
