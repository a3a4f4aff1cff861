package main

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/shibukawa/bemselector/resolver"
	"github.com/shibukawa/bemselector/stylesheet"
)

// ResolveCmd represents the resolve command
type ResolveCmd struct {
	File string `arg:"" help:"Stylesheet to inspect" type:"path"`
}

type resolveReport struct {
	File  string           `json:"file" yaml:"file"`
	Rules []ruleResolution `json:"rules" yaml:"rules"`
}

type ruleResolution struct {
	Selector string   `json:"selector" yaml:"selector"`
	Position string   `json:"position" yaml:"position"`
	Resolved []string `json:"resolved" yaml:"resolved"`
}

// Run executes the resolve command
func (cmd *ResolveCmd) Run(ctx *Context) error {
	config, err := ctx.Settings()
	if err != nil {
		return err
	}

	root, err := loadStylesheet(ctx, cmd.File)
	if err != nil {
		return err
	}

	return render(ctx, config.Output.Format, buildResolveReport(cmd.File, root))
}

func buildResolveReport(file string, root *stylesheet.Root) *resolveReport {
	r := &resolveReport{File: file, Rules: []ruleResolution{}}
	for _, n := range selectorNodes(root) {
		resolved := []string{}
		for _, s := range resolver.ResolveNestedSelector(n) {
			resolved = append(resolved, s.Resolved)
		}
		r.Rules = append(r.Rules, ruleResolution{
			Selector: stylesheet.Describe(n),
			Position: position(n, 0),
			Resolved: resolved,
		})
	}
	return r
}

func (r *resolveReport) writeText(w io.Writer) {
	heading.Fprintln(w, r.File)
	for _, rule := range r.Rules {
		fmt.Fprintf(w, "%s %s\n", dim.Sprint(rule.Position), rule.Selector)
		for _, s := range rule.Resolved {
			fmt.Fprintf(w, "  → %s\n", s)
		}
	}
}

func (r *resolveReport) writeXML(parent *etree.Element) {
	file := parent.CreateElement("file")
	file.CreateAttr("name", r.File)
	for _, rule := range r.Rules {
		e := file.CreateElement("rule")
		e.CreateAttr("selector", rule.Selector)
		e.CreateAttr("position", rule.Position)
		for _, s := range rule.Resolved {
			e.CreateElement("resolved").SetText(s)
		}
	}
}
