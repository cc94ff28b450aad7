package commands

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultCommandTimeout bounds a single command execution.
const DefaultCommandTimeout = 30 * time.Second

// Outcome classifies how a command execution ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
	OutcomeTimedOut Outcome = "timed_out"
)

// Text codes attached to categorised command errors.
const (
	CodeInvalidMessage = "BUJATIME_INVALID_MESSAGE"
	CodeCanceled       = "BUJATIME_CANCELED"
	CodeTimedOut       = "BUJATIME_TIMED_OUT"
	CodeFailed         = "BUJATIME_COMMAND_FAILED"
)

// classify maps a raw execution error onto an Outcome and a categorised
// error. Errors that already carry a go-errors category pass through.
func classify(err error) (Outcome, error) {
	switch {
	case err == nil:
		return OutcomeOK, nil
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled, commandError(err, "command canceled", CodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimedOut, commandError(err, "command timed out", CodeTimedOut)
	default:
		return OutcomeFailed, commandError(err, "command failed", CodeFailed)
	}
}

func commandError(err error, message, code string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func rejected(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeInvalidMessage)
}

func (o Outcome) logMessage() string {
	return "command." + string(o)
}
