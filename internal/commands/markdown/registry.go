package markdowncmd

import (
	"errors"

	"github.com/bujatime/bujatime/internal/commands"
	"github.com/bujatime/bujatime/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// HandlerSet groups the markdown command handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	Repair *RepairTextHandler
	Scan   *ScanDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	repairHandlerOpts []commands.HandlerOption[RepairTextCommand]
	scanHandlerOpts   []commands.HandlerOption[ScanDirectoryCommand]
}

// WithRepairHandlerOptions forwards options to the RepairTextHandler constructor.
func WithRepairHandlerOptions(opts ...commands.HandlerOption[RepairTextCommand]) Option {
	return func(cfg *options) {
		cfg.repairHandlerOpts = append(cfg.repairHandlerOpts, opts...)
	}
}

// WithScanHandlerOptions forwards options to the ScanDirectoryHandler constructor.
func WithScanHandlerOptions(opts ...commands.HandlerOption[ScanDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.scanHandlerOpts = append(cfg.scanHandlerOpts, opts...)
	}
}

// RegisterMarkdownCommands builds the markdown handlers and registers them
// with reg when it is non-nil. The handlers are returned so callers can wire
// the dispatcher or cron as needed.
func RegisterMarkdownCommands(reg commands.CommandRegistry, repairer interfaces.MarkdownRepairer, scanner interfaces.MarkdownScanner, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if repairer == nil {
		return nil, errors.New("markdown command registration: repairer is nil")
	}
	if scanner == nil {
		return nil, errors.New("markdown command registration: scanner is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "markdown")

	repairHandler := NewRepairTextHandler(repairer, logger, gates, cfg.repairHandlerOpts...)
	scanHandler := NewScanDirectoryHandler(scanner, logger, gates, cfg.scanHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(repairHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(scanHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Repair: repairHandler,
		Scan:   scanHandler,
	}, nil
}

// Subscription is released by calling Unsubscribe.
type Subscription interface {
	Unsubscribe()
}

// Subscribe attaches the handler set to the global go-command dispatcher so
// dispatcher.Dispatch reaches it. Scans are retried up to scanRetries times.
func (s *HandlerSet) Subscribe(scanRetries int) []Subscription {
	if s == nil {
		return nil
	}
	subs := make([]Subscription, 0, 2)
	if s.Repair != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.Repair, runner.WithMaxRetries(0)))
	}
	if s.Scan != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.Scan, runner.WithMaxRetries(scanRetries)))
	}
	return subs
}

// RegisterScanCron schedules a recurring scan through the cron registrar.
func RegisterScanCron(reg commands.CronRegistrar, handler *ScanDirectoryHandler, cfg command.HandlerConfig, msg ScanDirectoryCommand) error {
	if handler == nil {
		return nil
	}
	return commands.RegisterCron[ScanDirectoryCommand](reg, handler, cfg, msg)
}
