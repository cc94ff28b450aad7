package commands

import (
	"context"
	"time"

	"github.com/bujatime/bujatime/internal/logging"
	"github.com/bujatime/bujatime/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a command function behind message validation, a deadline,
// scoped logging and error categorisation. It satisfies
// command.Commander[T], so it can be subscribed on the go-command dispatcher
// or registered with a cron scheduler.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	observer  Observer[T]
}

// NewHandler wraps fn. It panics on a nil fn.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: nil command function")
	}
	h := &Handler[T]{run: fn, logger: logging.NoOp(), timeout: DefaultCommandTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute validates msg, then runs the wrapped function under the handler
// deadline. A context that ends while the function returns nil still counts
// as canceled or timed out.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return rejected(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		_, err = classify(err)
		return err
	}

	fields := h.logFields(msg)
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.started")

	began := time.Now()
	err := h.run(ctx, msg)
	if err == nil {
		err = ctx.Err()
	}
	outcome, err := classify(err)

	exec := Execution{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Fields:    fields,
		Duration:  time.Since(began),
		Outcome:   outcome,
		Err:       err,
		Logger:    logger,
	}
	if h.observer != nil {
		h.observer(ctx, msg, exec)
	} else {
		logExecution(logger, exec)
	}
	return err
}

func (h *Handler[T]) logFields(msg T) map[string]any {
	fields := map[string]any{}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	fields["command"] = command.GetMessageType(msg)
	if h.operation != "" {
		fields["operation"] = h.operation
	} else {
		delete(fields, "operation")
	}
	return fields
}

// WithTimeout replaces DefaultCommandTimeout. Zero or negative disables the
// deadline.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the execution logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation names the operation in every log line.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives log fields from each message. The command and
// operation keys are reserved.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithObserver takes over outcome logging for the handler.
func WithObserver[T command.Message](observer Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.observer = observer
	}
}
