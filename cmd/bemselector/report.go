package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/bemselector"
	"github.com/shibukawa/bemselector/nesting"
	"github.com/shibukawa/bemselector/stylesheet"
)

// Sentinel errors for command operations
var (
	ErrInputFileNotExist  = errors.New("input file does not exist")
	ErrVerificationFailed = errors.New("case verification failed")
	ErrTargetNotFound     = errors.New("target selector not found")
	ErrNoCaseDocuments    = errors.New("no case documents given")
)

// report is implemented by every command result
type report interface {
	writeText(w io.Writer)
	writeXML(parent *etree.Element)
}

// render writes r in the configured format
func render(ctx *Context, format string, r report) error {
	w := ctx.Stdout

	switch format {
	case bemselector.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case bemselector.FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(data)
		return err
	case bemselector.FormatXML:
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		r.writeXML(doc.CreateElement("bemselector"))
		doc.Indent(2)
		_, err := doc.WriteTo(w)
		return err
	default:
		r.writeText(w)
		return nil
	}
}

// loadStylesheet reads and parses a stylesheet. Structural errors are reported
// as warnings and the partial tree is returned.
func loadStylesheet(ctx *Context, path string) (*stylesheet.Root, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	root, err := stylesheet.Parse(string(data))
	if err != nil && !ctx.Quiet {
		color.New(color.FgYellow).Fprintf(ctx.Stdout, "warning: %s: %v\n", path, err)
	}

	return root, nil
}

// position formats the document position of a selector offset
func position(n stylesheet.Node, offset int) string {
	_, start, ok := stylesheet.SelectorOf(n)
	if !ok {
		return n.Source().Start.String()
	}
	return n.Root().PositionAt(start + offset).String()
}

// selectorNodes returns the rules, @nest and @at-root rules with a selector,
// in document order
func selectorNodes(root *stylesheet.Root) []stylesheet.Node {
	var result []stylesheet.Node
	stylesheet.Walk(root, func(n stylesheet.Node) bool {
		if _, ok := nesting.Classify(n); !ok {
			return true
		}
		if text, _, _ := stylesheet.SelectorOf(n); text != "" {
			result = append(result, n)
		}
		return true
	})
	return result
}

var (
	heading = color.New(color.Bold)
	dim     = color.New(color.Faint)
)
