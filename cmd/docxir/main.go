// Command docxir inspects, converts and edits DOCX files through the docxir
// document model.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lumina-note/docxir/internal/config"
	"github.com/lumina-note/docxir/pkg/docxir"
	"github.com/lumina-note/docxir/pkg/docxir/session"
)

const version = "0.1.0"

// Globals are the flags shared by every command.
type Globals struct {
	EnvFile  string `name:"env-file" help:"Load settings from this .env file" type:"path"`
	LogLevel string `name:"log-level" help:"Override DOCXIR_LOG_LEVEL (debug, info, warn, error, off)"`

	Out io.Writer `kong:"-"`
}

// CLI defines the command-line interface for docxir.
type CLI struct {
	Globals

	Inspect   InspectCmd   `cmd:"" help:"Print the document model of a DOCX file"`
	Roundtrip RoundtripCmd `cmd:"" help:"Open a DOCX file and save it again"`
	Geometry  GeometryCmd  `cmd:"" help:"Print the resolved page geometry"`
	Layout    LayoutCmd    `cmd:"" help:"Estimate the line layout of the body"`
	Op        OpCmd        `cmd:"" help:"Show the operation an editor input event maps to"`
	Edit      EditCmd      `cmd:"" help:"Apply editor input events to a DOCX file"`
	HTML      HTMLCmd      `cmd:"" name:"html" help:"Convert between DOCX and the HTML surrogate"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// configure loads the environment and installs the global configuration
// and logger.
func (g *Globals) configure() error {
	var files []string
	if g.EnvFile != "" {
		files = append(files, g.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	config.SetGlobalConfig(cfg)
	if g.Out == nil {
		g.Out = os.Stdout
	}
	return nil
}

func openDocument(ctx context.Context, path string) (*session.Session, error) {
	return docxir.OpenFile(ctx, docxir.FileStorage{}, path)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.Out, "docxir version %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("docxir"),
		kong.Description("DOCX interchange and page geometry tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(cli.configure())
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
