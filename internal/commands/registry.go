package commands

import (
	"context"

	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// RegisterCron schedules msg on handler through reg. Each tick runs with a
// background context. A nil registrar or handler is a no-op.
func RegisterCron[T command.Message](reg CronRegistrar, handler command.Commander[T], cfg command.HandlerConfig, msg T) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
