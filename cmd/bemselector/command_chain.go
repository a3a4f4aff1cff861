package main

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/casedoc"
	"github.com/shibukawa/bemselector/stylesheet"
)

// ChainCmd represents the chain command
type ChainCmd struct {
	File   string `arg:"" help:"Stylesheet to inspect" type:"path"`
	Target string `help:"Only show chains of the rule with this selector" short:"t"`
}

type chainReport struct {
	File   string       `json:"file" yaml:"file"`
	Chains []chainEntry `json:"chains" yaml:"chains"`
}

type chainEntry struct {
	Rule     string            `json:"rule" yaml:"rule"`
	Position string            `json:"position" yaml:"position"`
	Items    []chainItemReport `json:"items" yaml:"items"`
}

type chainItemReport struct {
	Type     string `json:"type" yaml:"type"`
	Selector string `json:"selector" yaml:"selector"`
	Rule     string `json:"rule" yaml:"rule"`
	Position string `json:"position" yaml:"position"`
}

// Run executes the chain command
func (cmd *ChainCmd) Run(ctx *Context) error {
	config, err := ctx.Settings()
	if err != nil {
		return err
	}

	root, err := loadStylesheet(ctx, cmd.File)
	if err != nil {
		return err
	}

	nodes := selectorNodes(root)
	if cmd.Target != "" {
		target := casedoc.FindTarget(root, cmd.Target)
		if target == nil {
			return fmt.Errorf("%w: %s", ErrTargetNotFound, cmd.Target)
		}
		nodes = []stylesheet.Node{target}
	}

	return render(ctx, config.Output.Format, buildChainReport(cmd.File, nodes, config.Separators))
}

func buildChainReport(file string, nodes []stylesheet.Node, separators bem.Separators) *chainReport {
	r := &chainReport{File: file, Chains: []chainEntry{}}
	for _, n := range nodes {
		for _, chain := range bem.ResolveChain(n, separators) {
			entry := chainEntry{
				Rule:     stylesheet.Describe(n),
				Position: position(n, 0),
			}
			for _, item := range chain {
				entry.Items = append(entry.Items, chainItemReport{
					Type:     item.Type.String(),
					Selector: item.Selector,
					Rule:     stylesheet.Describe(item.Node),
					Position: position(item.Node, 0),
				})
			}
			r.Chains = append(r.Chains, entry)
		}
	}
	return r
}

func (r *chainReport) writeText(w io.Writer) {
	heading.Fprintln(w, r.File)
	for _, chain := range r.Chains {
		fmt.Fprintf(w, "%s %s\n", dim.Sprint(chain.Position), chain.Rule)
		for _, item := range chain.Items {
			fmt.Fprintf(w, "  %-13s %s %s\n", item.Type, item.Selector, dim.Sprintf("(%s at %s)", item.Rule, item.Position))
		}
	}
}

func (r *chainReport) writeXML(parent *etree.Element) {
	file := parent.CreateElement("file")
	file.CreateAttr("name", r.File)
	for _, chain := range r.Chains {
		c := file.CreateElement("chain")
		c.CreateAttr("rule", chain.Rule)
		c.CreateAttr("position", chain.Position)
		for _, item := range chain.Items {
			e := c.CreateElement("item")
			e.CreateAttr("type", item.Type)
			e.CreateAttr("rule", item.Rule)
			e.CreateAttr("position", item.Position)
			e.SetText(item.Selector)
		}
	}
}
