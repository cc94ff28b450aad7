package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/internal/markdown"
)

type previewOutput struct {
	FrontMatter markdown.FrontMatter `json:"front_matter"`
	HTML        string               `json:"html"`
	Changes     []string             `json:"changes"`
}

func newPreviewCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a repaired markdown document to HTML",
		Long:  "Repairs the document in memory, strips its frontmatter, and prints the rendered HTML. The file is not modified.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			service, err := markdown.NewService(markdown.Config{
				BasePath: filepath.Dir(args[0]),
				Pattern:  rt.Config.Markdown.Pattern,
				Parser:   rt.Config.Markdown.Parser,
			}, rt.Parser, logging.MarkdownLogger(rt.Provider))
			if err != nil {
				return err
			}
			preview, err := service.Preview(cmd.Context(), source, rt.Config.Markdown.Parser)
			if err != nil {
				return fmt.Errorf("preview %s: %w", args[0], err)
			}

			if asJSON {
				return writeJSON(a.out, previewOutput{
					FrontMatter: preview.FrontMatter,
					HTML:        string(preview.HTML),
					Changes:     preview.Changes,
				})
			}
			if _, err := a.out.Write(preview.HTML); err != nil {
				return err
			}
			if len(preview.Changes) > 0 {
				fmt.Fprintf(a.errOut, "repaired before rendering (%s):\n", plural(len(preview.Changes), "fix", "fixes"))
				printChanges(a.errOut, preview.Changes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print frontmatter, HTML, and fixes as JSON")
	return cmd
}
