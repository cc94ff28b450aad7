package commands

import (
	"context"
	"time"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// Execution is handed to an Observer once a command has finished.
type Execution struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Outcome   Outcome
	Err       error
	Logger    interfaces.Logger
}

// Observer receives every finished execution of T.
type Observer[T command.Message] func(ctx context.Context, msg T, exec Execution)

// LogOutcomes logs each execution once, at info for OutcomeOK and error
// otherwise.
func LogOutcomes[T command.Message](logger interfaces.Logger) Observer[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, exec Execution) {
		logExecution(logging.WithFields(logger, exec.Fields), exec)
	}
}

func logExecution(logger interfaces.Logger, exec Execution) {
	if exec.Outcome == OutcomeOK {
		logger.Info(exec.Outcome.logMessage(), "duration_ms", exec.Duration.Milliseconds())
		return
	}
	logger.Error(exec.Outcome.logMessage(), "duration_ms", exec.Duration.Milliseconds(), "error", exec.Err)
}
