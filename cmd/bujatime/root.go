package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/bujatime/bujatime/cmd/bujatime/internal/bootstrap"
)

// app carries the streams and global flags shared by every subcommand.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string
	logFormat  string

	bootstrap func(bootstrap.Options) (*bootstrap.Runtime, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:        in,
		out:       out,
		errOut:    errOut,
		bootstrap: bootstrap.Build,
	}
}

// runtime loads configuration and wires the services. Calculators never call
// it, so they work without a config file or content tree.
func (a *app) runtime() (*bootstrap.Runtime, error) {
	return a.bootstrap(bootstrap.Options{
		ConfigPath: a.configPath,
		LogLevel:   a.logLevel,
		LogFormat:  a.logFormat,
		LogWriter:  a.errOut,
	})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "bujatime",
		Short: "BujaTime content toolkit",
		Long: "bujatime repairs LLM-generated markdown, validates the blog catalog, " +
			"and builds the feeds, sitemap, and prerendered pages of the site.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format override")

	root.AddCommand(
		newFixCommand(a),
		newScanCommand(a),
		newWatchCommand(a),
		newPreviewCommand(a),
		newValidateCommand(a),
		newBuildCommand(a),
		newPostCommand(a),
		newCalcCommand(a),
	)
	return root
}
