package main

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/stylesheet"
)

// BlockCmd represents the block command
type BlockCmd struct {
	File string `arg:"" help:"Stylesheet to inspect" type:"path"`
}

type blockReport struct {
	File     string `json:"file" yaml:"file"`
	Block    string `json:"block,omitempty" yaml:"block,omitempty"`
	Rule     string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
}

// Run executes the block command
func (cmd *BlockCmd) Run(ctx *Context) error {
	config, err := ctx.Settings()
	if err != nil {
		return err
	}

	root, err := loadStylesheet(ctx, cmd.File)
	if err != nil {
		return err
	}

	return render(ctx, config.Output.Format, buildBlockReport(cmd.File, root, config.Separators))
}

func buildBlockReport(file string, root *stylesheet.Root, separators bem.Separators) *blockReport {
	r := &blockReport{File: file}
	if block := bem.GetBlock(root, separators); block != nil {
		r.Block = block.Name
		r.Rule = block.Node.Selector
		r.Position = position(block.Node, 0)
	}
	return r
}

func (r *blockReport) writeText(w io.Writer) {
	if r.Block == "" {
		fmt.Fprintf(w, "%s: %s\n", r.File, dim.Sprint("no block"))
		return
	}
	fmt.Fprintf(w, "%s: %s %s\n", r.File, heading.Sprint("."+r.Block), dim.Sprintf("(%s at %s)", r.Rule, r.Position))
}

func (r *blockReport) writeXML(parent *etree.Element) {
	file := parent.CreateElement("file")
	file.CreateAttr("name", r.File)
	if r.Block != "" {
		block := file.CreateElement("block")
		block.CreateAttr("rule", r.Rule)
		block.CreateAttr("position", r.Position)
		block.SetText(r.Block)
	}
}
