package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	markdowncmd "github.com/bujatime/bujatime/internal/commands/markdown"
	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/internal/markdown"
)

// errWatchDisabled is returned when features.watch is off.
var errWatchDisabled = errors.New("watch feature disabled")

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Repair markdown files as they are saved",
		Long: "Watches dir (content.posts_dir by default) and repairs every matching markdown file " +
			"shortly after it is written. Stops on interrupt.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.runtime()
			if err != nil {
				return err
			}
			cfg := rt.Config
			if !cfg.Features.Watch {
				return errWatchDisabled
			}
			if !cfg.Features.Repair {
				return markdowncmd.ErrRepairFeatureDisabled
			}
			root := cfg.Content.PostsDir
			if len(args) == 1 {
				root = args[0]
			}
			if info, err := os.Stat(root); err != nil {
				return err
			} else if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", root)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher := markdown.NewWatcher(markdown.WatcherConfig{
				Root:      root,
				Pattern:   cfg.Markdown.Pattern,
				Recursive: cfg.Markdown.Recursive,
				Debounce:  cfg.Markdown.Debounce,
			},
				markdown.WithWatcherLogger(logging.WatcherLogger(rt.Provider)),
				markdown.OnRepair(func(event markdown.WatchEvent) {
					fmt.Fprintf(a.out, "%s: %s\n", event.Path, plural(len(event.Changes), "fix", "fixes"))
					printChanges(a.out, event.Changes)
				}),
			)
			fmt.Fprintf(a.errOut, "watching %s (ctrl-c to stop)\n", root)
			return watcher.Run(ctx)
		},
	}
}
