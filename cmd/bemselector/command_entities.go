package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/stylesheet"
)

// EntitiesCmd represents the entities command
type EntitiesCmd struct {
	File string `arg:"" help:"Stylesheet to inspect" type:"path"`
}

type entitiesReport struct {
	File  string         `json:"file" yaml:"file"`
	Rules []ruleEntities `json:"rules" yaml:"rules"`
}

type ruleEntities struct {
	Selector string         `json:"selector" yaml:"selector"`
	Position string         `json:"position" yaml:"position"`
	Entities []entityReport `json:"entities" yaml:"entities"`
}

type entityReport struct {
	Selector string       `json:"selector" yaml:"selector"`
	Context  string       `json:"context" yaml:"context"`
	Resolved string       `json:"resolved" yaml:"resolved"`
	Present  bool         `json:"present" yaml:"present"`
	Parts    []partReport `json:"parts" yaml:"parts"`
}

type partReport struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
	// Position is empty for parts injected by "&" or variables.
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
}

// Run executes the entities command
func (cmd *EntitiesCmd) Run(ctx *Context) error {
	config, err := ctx.Settings()
	if err != nil {
		return err
	}

	root, err := loadStylesheet(ctx, cmd.File)
	if err != nil {
		return err
	}

	return render(ctx, config.Output.Format, buildEntitiesReport(cmd.File, root, config.Separators))
}

func buildEntitiesReport(file string, root *stylesheet.Root, separators bem.Separators) *entitiesReport {
	r := &entitiesReport{File: file, Rules: []ruleEntities{}}
	for _, n := range selectorNodes(root) {
		entities := bem.ResolveEntities(n, separators)
		if len(entities) == 0 {
			continue
		}
		rule := ruleEntities{
			Selector: stylesheet.Describe(n),
			Position: position(n, 0),
		}
		for _, e := range entities {
			rule.Entities = append(rule.Entities, newEntityReport(e))
		}
		r.Rules = append(r.Rules, rule)
	}
	return r
}

func newEntityReport(e *bem.Entity) entityReport {
	report := entityReport{
		Selector: e.BemSelector,
		Context:  e.SourceContext,
		Resolved: e.Selector.Resolved,
		Present:  e.Present(),
	}
	for _, part := range e.List() {
		p := partReport{Type: part.Type.String(), Value: part.Value}
		if part.SourceRange != nil {
			p.Position = e.Position(*part.SourceRange).String()
		}
		report.Parts = append(report.Parts, p)
	}
	return report
}

func (r *entitiesReport) writeText(w io.Writer) {
	heading.Fprintln(w, r.File)
	for _, rule := range r.Rules {
		fmt.Fprintf(w, "%s %s\n", dim.Sprint(rule.Position), rule.Selector)
		for _, e := range rule.Entities {
			label := e.Selector
			if e.Context != "" {
				label += " " + dim.Sprintf("[%s]", e.Context)
			}
			fmt.Fprintf(w, "  %s\n", label)
			parts := make([]string, 0, len(e.Parts))
			for _, p := range e.Parts {
				at := p.Position
				if at == "" {
					at = "-"
				}
				parts = append(parts, fmt.Sprintf("%s=%s@%s", p.Type, p.Value, at))
			}
			fmt.Fprintf(w, "    %s\n", strings.Join(parts, " "))
		}
	}
}

func (r *entitiesReport) writeXML(parent *etree.Element) {
	file := parent.CreateElement("file")
	file.CreateAttr("name", r.File)
	for _, rule := range r.Rules {
		ruleElement := file.CreateElement("rule")
		ruleElement.CreateAttr("selector", rule.Selector)
		ruleElement.CreateAttr("position", rule.Position)
		for _, e := range rule.Entities {
			entity := ruleElement.CreateElement("entity")
			entity.CreateAttr("selector", e.Selector)
			entity.CreateAttr("context", e.Context)
			entity.CreateAttr("resolved", e.Resolved)
			for _, p := range e.Parts {
				part := entity.CreateElement("part")
				part.CreateAttr("type", p.Type)
				if p.Position != "" {
					part.CreateAttr("position", p.Position)
				}
				part.SetText(p.Value)
			}
		}
	}
}
