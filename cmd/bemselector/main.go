package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/bemselector"
)

// Version of the command
const Version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Format  string
	Stdout  io.Writer
}

// Settings loads the configuration and applies the command-line overrides.
func (ctx *Context) Settings() (*bemselector.Config, error) {
	config, err := bemselector.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.Format != "" {
		if err := bemselector.ValidateFormat(ctx.Format); err != nil {
			return nil, err
		}
		config.Output.Format = ctx.Format
	}

	if !config.Output.ColorEnabled() {
		color.NoColor = true
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stdout, "Configuration loaded from: %s\n", ctx.Config)
	}

	return config, nil
}

// CLI represents the command-line interface
var CLI struct {
	Config       string          `help:"Configuration file path" default:"bemselector.yaml"`
	Verbose      bool            `help:"Enable verbose output" short:"v"`
	Quiet        bool            `help:"Suppress output" short:"q"`
	Format       string          `help:"Output format (text, json, yaml, xml)" short:"f"`
	Resolve      ResolveCmd      `cmd:"" help:"Show the resolved selectors of every rule"`
	Entities     EntitiesCmd     `cmd:"" help:"Show the BEM entities of every rule"`
	Chain        ChainCmd        `cmd:"" help:"Show BEM chains"`
	Block        BlockCmd        `cmd:"" help:"Show the BEM block a stylesheet is written for"`
	Declarations DeclarationsCmd `cmd:"" help:"List declarations with their at-rule path"`
	Verify       VerifyCmd       `cmd:"" help:"Run Markdown case documents"`
	Version      VersionCmd      `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "bemselector %s\n", Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bemselector"),
		kong.Description("Resolve nested CSS/SCSS selectors and inspect their BEM structure."),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Format:  CLI.Format,
		Stdout:  os.Stdout,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
