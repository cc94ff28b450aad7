package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	sitecmd "github.com/bujatime/bujatime/internal/commands/site"
	"github.com/bujatime/bujatime/internal/generator"
)

func newBuildCommand(a *app) *cobra.Command {
	var (
		outputDir   string
		dryRun      bool
		incremental bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate feeds, sitemap, robots.txt, and prerendered pages",
		Long: "Loads the catalog and writes rss.xml, sitemap.xml, robots.txt, and one prerendered " +
			"index.html per route into the output directory. The SPA shell must already be built there.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			if incremental {
				rt.Config.Generator.Incremental = true
			}

			var result generator.BuildResult
			if err := rt.Site.Build.Execute(cmd.Context(), sitecmd.BuildSiteCommand{
				OutputDir: outputDir,
				DryRun:    dryRun,
				Result:    &result,
			}); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(a.out, result)
			}
			printBuildResult(a, result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (defaults to generator.output_dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without touching disk")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "Skip artifacts whose content is unchanged since the last build")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the build result as JSON")
	return cmd
}

func printBuildResult(a *app, result generator.BuildResult) {
	var total uint64
	for _, artifact := range result.Artifacts {
		if artifact.Skipped {
			continue
		}
		total += uint64(artifact.Size)
		if result.DryRun {
			fmt.Fprintf(a.out, "would write %s (%s)\n", artifact.Path, humanize.Bytes(uint64(artifact.Size)))
		}
	}

	prefix := "built"
	if result.DryRun {
		prefix = "dry run:"
	}
	fmt.Fprintf(a.out, "%s %s, %s (%s skipped), %s, %s in %s\n",
		prefix,
		plural(result.Posts, "post", "posts"),
		plural(result.PagesBuilt, "page", "pages"),
		humanize.Comma(int64(result.PagesSkipped)),
		plural(len(result.Artifacts), "artifact", "artifacts"),
		humanize.Bytes(total),
		result.Duration.Round(time.Millisecond),
	)
}
