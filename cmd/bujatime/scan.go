package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	"github.com/bujatime/bujatime/cmd/bujatime/internal/bootstrap"
	markdowncmd "github.com/bujatime/bujatime/internal/commands/markdown"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

// errRepairsPending fails a report-only scan that found documents to fix.
var errRepairsPending = errors.New("markdown documents need repair; rerun with --fix")

type scanRequest struct {
	Directory string
	Pattern   string
	Fix       bool
	JSON      bool
}

func newScanCommand(a *app) *cobra.Command {
	req := scanRequest{}

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Report markdown documents that need repair",
		Long: "Scans every matching markdown file under dir (content.posts_dir by default) and reports the fixes each one needs. " +
			"Exits non-zero when repairs are pending and --fix is not set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			req.Directory = rt.Config.Content.PostsDir
			if len(args) == 1 {
				req.Directory = args[0]
			}
			return a.scan(cmd.Context(), rt, req)
		},
	}
	cmd.Flags().BoolVar(&req.Fix, "fix", false, "Write repaired documents back to disk")
	cmd.Flags().StringVar(&req.Pattern, "pattern", "", "Glob overriding the configured markdown pattern")
	cmd.Flags().BoolVar(&req.JSON, "json", false, "Print the scan report as JSON")
	return cmd
}

// scan dispatches the scan through go-command so commands.scan_retries
// applies. The subscriptions live for this call only.
func (a *app) scan(ctx context.Context, rt *bootstrap.Runtime, req scanRequest) error {
	subs := rt.Markdown.Subscribe(rt.Config.Commands.ScanRetries)
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	var report interfaces.ScanReport
	if err := dispatcher.Dispatch(ctx, markdowncmd.ScanDirectoryCommand{
		Directory: req.Directory,
		Pattern:   req.Pattern,
		Fix:       req.Fix,
		Report:    &report,
	}); err != nil {
		return err
	}

	if req.JSON {
		if err := writeJSON(a.out, report); err != nil {
			return err
		}
	} else {
		printScanReport(a, report)
	}

	if !req.Fix && len(report.Files) > 0 {
		return errRepairsPending
	}
	return nil
}

func printScanReport(a *app, report interfaces.ScanReport) {
	for _, file := range report.Files {
		fmt.Fprintf(a.out, "%s: %s\n", file.Path, plural(len(file.Changes), "fix", "fixes"))
		printChanges(a.out, file.Changes)
		printDiffs(a.out, file.Diffs)
	}

	verb := "need repair"
	if report.Fixed {
		verb = "repaired"
	}
	fmt.Fprintf(a.out, "scanned %s, %d %s (%s) in %s\n",
		plural(report.Scanned, "file", "files"),
		len(report.Files), verb,
		plural(report.TotalDiffs, "changed line", "changed lines"),
		report.Duration.Round(time.Millisecond),
	)
}
