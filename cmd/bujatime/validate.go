package main

import (
	"fmt"

	"github.com/spf13/cobra"

	sitecmd "github.com/bujatime/bujatime/internal/commands/site"
	"github.com/bujatime/bujatime/internal/content"
)

func newValidateCommand(a *app) *cobra.Command {
	var (
		artifacts bool
		dataDir   string
		outputDir string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the content catalog",
		Long: "Validates posts, categories, and authors, then checks slug uniqueness and category visibility. " +
			"With --artifacts the built sitemap.xml and rss.xml are checked against the catalog too.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			if dataDir == "" {
				dataDir = rt.Config.Content.DataDir
			}
			if outputDir == "" {
				outputDir = rt.Config.Generator.OutputDir
			}

			var report content.ValidationReport
			err = rt.Site.Validate.Execute(cmd.Context(), sitecmd.ValidateContentCommand{
				DataDir:        dataDir,
				CheckArtifacts: artifacts,
				OutputDir:      outputDir,
				Report:         &report,
			})
			if err != nil && report.OK() {
				return err
			}

			if asJSON {
				if report.Issues == nil {
					report.Issues = []content.Issue{}
				}
				if encodeErr := writeJSON(a.out, report); encodeErr != nil {
					return encodeErr
				}
			} else {
				printIssues(a, report)
			}
			if !report.OK() {
				return fmt.Errorf("content validation failed: %s", plural(len(report.Issues), "issue", "issues"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&artifacts, "artifacts", false, "Also verify the generated sitemap.xml and rss.xml")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Catalog directory (defaults to content.data_dir)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Build output directory (defaults to generator.output_dir)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printIssues(a *app, report content.ValidationReport) {
	if report.OK() {
		fmt.Fprintln(a.out, "catalog OK")
		return
	}
	for _, issue := range report.Issues {
		if issue.Subject != "" {
			fmt.Fprintf(a.out, "[%s] %s: %s\n", issue.Code, issue.Subject, issue.Message)
			continue
		}
		fmt.Fprintf(a.out, "[%s] %s\n", issue.Code, issue.Message)
	}
}
