// Package casedoc reads Markdown case documents: executable examples pairing an
// input stylesheet with YAML expectations about its resolved selectors, BEM
// entities and chains.
package casedoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/shibukawa/bemselector/bem"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrInvalidCase        = errors.New("invalid case")
	ErrNoCases            = errors.New("document has no cases")
)

// Document is a parsed case document.
type Document struct {
	Title string
	// Separators from the front matter apply to every case without its own.
	Separators *bem.Separators
	Cases      []*Case
}

// Case is one "##" section of a document.
type Case struct {
	Name string
	// Line is the 1-based line of the heading.
	Line int
	// Language is the info string of the input block ("scss" or "css").
	Language string
	Input    string
	Expect   Expectation

	document *Document
}

// Expectation is the YAML block of a case. Nil fields are not checked.
type Expectation struct {
	Target     string          `yaml:"target"`
	Resolved   []string        `yaml:"resolved"`
	Entities   []string        `yaml:"entities"`
	Contexts   []string        `yaml:"contexts"`
	Chains     [][]string      `yaml:"chains"`
	Block      *string         `yaml:"block"`
	Separators *bem.Separators `yaml:"separators"`
}

type frontMatter struct {
	Title      string          `yaml:"title"`
	Separators *bem.Separators `yaml:"separators"`
}

// ParseFile parses the case document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open case document: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a case document.
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	meta, body, lineOffset, err := parseFrontMatter(content)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(body))

	document := &Document{
		Title:      meta.Title,
		Separators: meta.Separators,
	}

	var current *Case
	finish := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return fmt.Errorf("%w: %q (line %d) has no scss or css block", ErrInvalidCase, current.Name, current.Line)
		}
		document.Cases = append(document.Cases, current)
		current = nil
		return nil
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if err := finish(); err != nil {
				return nil, err
			}
			heading := headingText(node, body)
			switch {
			case node.Level == 1 && document.Title == "":
				document.Title = heading
			case node.Level == 2:
				current = &Case{
					Name:     heading,
					Line:     lineOf(body, node) + lineOffset,
					document: document,
				}
			}

		case *ast.FencedCodeBlock:
			if current == nil {
				continue
			}
			code := codeBlockContent(node, body)
			switch info := strings.ToLower(strings.TrimSpace(string(node.Language(body)))); info {
			case "scss", "css", "sass":
				current.Language = info
				current.Input = code
			case "yaml", "yml":
				if err := yaml.UnmarshalWithOptions([]byte(code), &current.Expect, yaml.Strict()); err != nil {
					return nil, fmt.Errorf("%w: %q: %w", ErrInvalidCase, current.Name, err)
				}
			}
		}
	}
	if err := finish(); err != nil {
		return nil, err
	}

	if len(document.Cases) == 0 {
		return nil, ErrNoCases
	}
	return document, nil
}

// parseFrontMatter splits a leading "---" YAML block from the document and
// reports how many lines it took.
func parseFrontMatter(content []byte) (frontMatter, []byte, int, error) {
	var meta frontMatter

	if !bytes.HasPrefix(content, []byte("---\n")) {
		return meta, content, 0, nil
	}

	end := bytes.Index(content[4:], []byte("\n---"))
	if end == -1 {
		return meta, nil, 0, ErrInvalidFrontMatter
	}
	end += 4

	if err := yaml.Unmarshal(content[4:end], &meta); err != nil {
		return meta, nil, 0, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	rest := content[end+4:]
	// drop the rest of the closing delimiter line
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = nil
	}
	lines := bytes.Count(content[:len(content)-len(rest)], []byte("\n"))
	return meta, rest, lines, nil
}

func headingText(heading *ast.Heading, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			result.Write(node.Segment.Value(content))
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

func codeBlockContent(block *ast.FencedCodeBlock, content []byte) string {
	var result strings.Builder

	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		result.Write(line.Value(content))
	}

	return strings.TrimRight(result.String(), "\n")
}

// lineOf returns the 1-based line a block node starts at.
func lineOf(content []byte, node ast.Node) int {
	lines := node.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	return bytes.Count(content[:lines.At(0).Start], []byte("\n")) + 1
}
