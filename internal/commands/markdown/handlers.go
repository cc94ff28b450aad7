package markdowncmd

import (
	"context"
	"errors"

	"github.com/bujatime/bujatime/internal/commands"
	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	repairOperation = "markdown.repair_text"
	scanOperation   = "markdown.scan_directory"
)

var (
	// ErrRepairFeatureDisabled is returned when the repair feature flag is disabled at runtime.
	ErrRepairFeatureDisabled = errors.New("markdown command: repair feature disabled")
)

var (
	_ command.Commander[RepairTextCommand]    = (*RepairTextHandler)(nil)
	_ command.Commander[ScanDirectoryCommand] = (*ScanDirectoryHandler)(nil)
)

// RepairTextHandler repairs in-memory markdown via the shared command handler foundation.
type RepairTextHandler struct {
	inner *commands.Handler[RepairTextCommand]
}

// NewRepairTextHandler creates a handler bound to repairer.
func NewRepairTextHandler(repairer interfaces.MarkdownRepairer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RepairTextCommand]) *RepairTextHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg RepairTextCommand) error {
		if !gates.repairEnabled() {
			return ErrRepairFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result := repairer.Repair(msg.Text)
		*msg.Result = result
		if result.Changed() {
			logging.WithFields(baseLogger, map[string]any{
				"change_count": len(result.Changes),
			}).Info("markdown.command.repair_text.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RepairTextCommand]{
		commands.WithLogger[RepairTextCommand](baseLogger),
		commands.WithOperation[RepairTextCommand](repairOperation),
		commands.WithMessageFields(func(msg RepairTextCommand) map[string]any {
			return map[string]any{
				"text_bytes": len(msg.Text),
			}
		}),
		commands.WithObserver(commands.LogOutcomes[RepairTextCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RepairTextHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RepairTextCommand].
func (h *RepairTextHandler) Execute(ctx context.Context, msg RepairTextCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ScanDirectoryHandler runs directory scans via the shared command handler foundation.
type ScanDirectoryHandler struct {
	inner *commands.Handler[ScanDirectoryCommand]
}

// NewScanDirectoryHandler creates a handler bound to scanner.
func NewScanDirectoryHandler(scanner interfaces.MarkdownScanner, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ScanDirectoryCommand]) *ScanDirectoryHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ScanDirectoryCommand) error {
		if !gates.repairEnabled() {
			return ErrRepairFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		report, err := scanner.ScanDirectory(ctx, msg.Directory, interfaces.ScanOptions{
			Pattern: msg.Pattern,
			Fix:     msg.Fix,
		})
		if err != nil {
			return err
		}
		if report == nil {
			return nil
		}
		if msg.Report != nil {
			*msg.Report = *report
		}
		logging.WithFields(baseLogger, map[string]any{
			"run_id":        report.RunID,
			"scanned_count": report.Scanned,
			"changed_count": len(report.Files),
			"diff_count":    report.TotalDiffs,
			"fix":           msg.Fix,
		}).Info("markdown.command.scan_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ScanDirectoryCommand]{
		commands.WithLogger[ScanDirectoryCommand](baseLogger),
		commands.WithOperation[ScanDirectoryCommand](scanOperation),
		commands.WithMessageFields(func(msg ScanDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Fix {
				fields["fix"] = true
			}
			return fields
		}),
		commands.WithObserver(commands.LogOutcomes[ScanDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ScanDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ScanDirectoryCommand].
func (h *ScanDirectoryHandler) Execute(ctx context.Context, msg ScanDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
