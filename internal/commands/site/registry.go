package sitecmd

import (
	"errors"

	"github.com/bujatime/bujatime/internal/commands"
	"github.com/bujatime/bujatime/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// HandlerSet groups the site command handlers produced by RegisterSiteCommands.
type HandlerSet struct {
	Validate *ValidateContentHandler
	Build    *BuildSiteHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	validateHandlerOpts []commands.HandlerOption[ValidateContentCommand]
	buildHandlerOpts    []commands.HandlerOption[BuildSiteCommand]
}

// WithValidateHandlerOptions forwards options to the ValidateContentHandler constructor.
func WithValidateHandlerOptions(opts ...commands.HandlerOption[ValidateContentCommand]) Option {
	return func(cfg *options) {
		cfg.validateHandlerOpts = append(cfg.validateHandlerOpts, opts...)
	}
}

// WithBuildHandlerOptions forwards options to the BuildSiteHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// RegisterSiteCommands builds the site handlers and registers them with reg
// when it is non-nil.
func RegisterSiteCommands(reg commands.CommandRegistry, builder Builder, validateCfg ValidateConfig, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if builder == nil {
		return nil, errors.New("site command registration: builder is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "site")

	validateHandler := NewValidateContentHandler(validateCfg, logger, cfg.validateHandlerOpts...)
	buildHandler := NewBuildSiteHandler(builder, logger, gates, cfg.buildHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(validateHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(buildHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Validate: validateHandler,
		Build:    buildHandler,
	}, nil
}

// RegisterBuildCron schedules recurring builds through the cron registrar.
func RegisterBuildCron(reg commands.CronRegistrar, handler *BuildSiteHandler, cfg command.HandlerConfig, msg BuildSiteCommand) error {
	if handler == nil {
		return nil
	}
	return commands.RegisterCron[BuildSiteCommand](reg, handler, cfg, msg)
}
