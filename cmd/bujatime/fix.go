package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bujatime/bujatime/cmd/bujatime/internal/bootstrap"
	markdowncmd "github.com/bujatime/bujatime/internal/commands/markdown"
	"github.com/bujatime/bujatime/internal/markdown"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

func newFixCommand(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Repair markdown formatting",
		Long: "Repairs mechanical markdown mistakes. Without a path the text on stdin is repaired " +
			"and written to stdout. A file is printed repaired unless --write is set; a directory " +
			"is scanned and, with --write, fixed in place. Applied fixes are listed on stderr.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return a.fixStream(cmd.Context(), rt)
			}
			return a.fixPath(cmd.Context(), rt, args[0], write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write repaired files back to disk")
	return cmd
}

func (a *app) fixStream(ctx context.Context, rt *bootstrap.Runtime) error {
	source, err := io.ReadAll(a.in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	var result interfaces.RepairResult
	if err := rt.Markdown.Repair.Execute(ctx, markdowncmd.RepairTextCommand{
		Text:   string(source),
		Result: &result,
	}); err != nil {
		return err
	}

	if _, err := io.WriteString(a.out, result.Fixed); err != nil {
		return err
	}
	if result.Changed() {
		fmt.Fprintf(a.errOut, "applied %s:\n", plural(len(result.Changes), "fix", "fixes"))
		printChanges(a.errOut, result.Changes)
	}
	return nil
}

func (a *app) fixPath(ctx context.Context, rt *bootstrap.Runtime, target string, write bool) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return a.scan(ctx, rt, scanRequest{Directory: target, Fix: write})
	}
	if !rt.Config.Features.Repair {
		return markdowncmd.ErrRepairFeatureDisabled
	}

	source, err := os.ReadFile(target)
	if err != nil {
		return err
	}
	repair := markdown.RepairDocument(source)

	if !write {
		if _, err := a.out.Write(repair.Fixed); err != nil {
			return err
		}
	} else if repair.Changed() {
		if err := os.WriteFile(target, repair.Fixed, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}

	if repair.Changed() {
		fmt.Fprintf(a.errOut, "%s: %s\n", target, plural(len(repair.Changes), "fix", "fixes"))
		printChanges(a.errOut, repair.Changes)
		printDiffs(a.errOut, repair.Diffs)
	}
	return nil
}
