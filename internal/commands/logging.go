package commands

import (
	"strings"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
)

// CommandLogger returns a logger scoped to bujatime.commands.<module> with the
// component fields every command log line carries.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.CommandModuleLogger(provider, name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
