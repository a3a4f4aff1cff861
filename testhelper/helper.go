// Package testhelper holds fixtures shared by package tests.
package testhelper

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/shibukawa/bemselector/stylesheet"
)

var (
	whiteSpaces = regexp.MustCompile(`^(\s+)`)
	leadingTabs = regexp.MustCompile(`^(\t+)`)
)

func replaceTab(match string) string {
	return strings.Repeat("  ", strings.Count(match, "\t"))
}

// TrimIndent removes the common indent (taken from the second line) of a raw
// string literal starting with a newline. Leading tabs become two spaces.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")

	var indent string
	if len(lines) > 1 {
		indent = whiteSpaces.FindString(lines[1])
	}

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingTabs.ReplaceAllStringFunc(line, replaceTab)
	}

	return strings.Join(lines[1:], "\n")
}

// GetCaller returns " (file:line)" of the caller, for table-driven test names.
func GetCaller(t *testing.T) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return " (unknown)"
	}

	return fmt.Sprintf(" (%s:%d)", filepath.Base(file), line)
}

// Parse parses a stylesheet fixture and fails the test on structural errors.
func Parse(t *testing.T, src string) *stylesheet.Root {
	t.Helper()

	root, err := stylesheet.Parse(src)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return root
}

// Find returns the first rule whose selector, or at-rule whose "@name params"
// or params, equals selector.
func Find(t *testing.T, root *stylesheet.Root, selector string) stylesheet.Node {
	t.Helper()

	var found stylesheet.Node
	stylesheet.Walk(root, func(n stylesheet.Node) bool {
		switch v := n.(type) {
		case *stylesheet.Rule:
			if v.Selector == selector {
				found = v
			}
		case *stylesheet.AtRule:
			if v.Params == selector || stylesheet.Describe(v) == selector {
				found = v
			}
		}
		return found == nil
	})
	if found == nil {
		t.Fatalf("node %q not found", selector)
	}
	return found
}
