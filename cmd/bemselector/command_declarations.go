package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/shibukawa/bemselector/stylesheet"
)

// DeclarationsCmd represents the declarations command
type DeclarationsCmd struct {
	File        string `arg:"" help:"Stylesheet to inspect" type:"path"`
	NoAtRules   bool   `help:"Do not descend into at-rules without nested rules"`
	OnlyVisible bool   `help:"Skip Sass variable declarations"`
}

type declarationsReport struct {
	File   string            `json:"file" yaml:"file"`
	Blocks []declarationList `json:"blocks" yaml:"blocks"`
}

type declarationList struct {
	Owner        string              `json:"owner" yaml:"owner"`
	Declarations []declarationReport `json:"declarations" yaml:"declarations"`
}

type declarationReport struct {
	Prop      string   `json:"prop" yaml:"prop"`
	Value     string   `json:"value" yaml:"value"`
	Important bool     `json:"important,omitempty" yaml:"important,omitempty"`
	Position  string   `json:"position" yaml:"position"`
	AtRules   []string `json:"at_rules,omitempty" yaml:"at_rules,omitempty"`
}

// Run executes the declarations command
func (cmd *DeclarationsCmd) Run(ctx *Context) error {
	config, err := ctx.Settings()
	if err != nil {
		return err
	}

	root, err := loadStylesheet(ctx, cmd.File)
	if err != nil {
		return err
	}

	return render(ctx, config.Output.Format, cmd.build(root))
}

func (cmd *DeclarationsCmd) build(root *stylesheet.Root) *declarationsReport {
	r := &declarationsReport{File: cmd.File, Blocks: []declarationList{}}

	owners := []stylesheet.Container{root}
	for rule := range stylesheet.Rules(root) {
		owners = append(owners, rule)
	}

	for _, owner := range owners {
		list := declarationList{Owner: stylesheet.Describe(owner)}
		for _, d := range stylesheet.ListDeclarationsWithPath(owner, !cmd.NoAtRules) {
			if cmd.OnlyVisible && d.Declaration.IsVariable() {
				continue
			}
			report := declarationReport{
				Prop:      d.Declaration.Prop,
				Value:     d.Declaration.Value,
				Important: d.Declaration.Important,
				Position:  d.Declaration.Source().Start.String(),
			}
			for _, a := range d.AtRulePath {
				report.AtRules = append(report.AtRules, stylesheet.Describe(a))
			}
			list.Declarations = append(list.Declarations, report)
		}
		if len(list.Declarations) > 0 {
			r.Blocks = append(r.Blocks, list)
		}
	}
	return r
}

func (r *declarationsReport) writeText(w io.Writer) {
	heading.Fprintln(w, r.File)
	for _, block := range r.Blocks {
		fmt.Fprintln(w, block.Owner)
		for _, d := range block.Declarations {
			important := ""
			if d.Important {
				important = " !important"
			}
			path := ""
			if len(d.AtRules) > 0 {
				path = " " + dim.Sprintf("(%s)", strings.Join(d.AtRules, " > "))
			}
			fmt.Fprintf(w, "  %s %s: %s%s%s\n", dim.Sprint(d.Position), d.Prop, d.Value, important, path)
		}
	}
}

func (r *declarationsReport) writeXML(parent *etree.Element) {
	file := parent.CreateElement("file")
	file.CreateAttr("name", r.File)
	for _, block := range r.Blocks {
		owner := file.CreateElement("block")
		owner.CreateAttr("owner", block.Owner)
		for _, d := range block.Declarations {
			e := owner.CreateElement("declaration")
			e.CreateAttr("prop", d.Prop)
			e.CreateAttr("position", d.Position)
			if d.Important {
				e.CreateAttr("important", "true")
			}
			for _, a := range d.AtRules {
				e.CreateElement("at-rule").SetText(a)
			}
			e.CreateElement("value").SetText(d.Value)
		}
	}
}
