package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes through a slog logger.
type LogHandler struct {
	// Logger receives the records. Nil uses slog.Default().
	Logger *slog.Logger
	// Verbose adds stack traces to panic records.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a NavError at error level.
func (h *LogHandler) HandleError(err *NavError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String()}
	if err.Container != "" {
		attrs = append(attrs, "container", err.Container)
	}
	if err.Key != "" {
		attrs = append(attrs, "key", err.Key)
	}
	if err.Err != nil {
		attrs = append(attrs, "error", err.Err.Error())
	}
	h.logger().Error("navstack error", attrs...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.logger().Error("navstack panic", attrs...)
}
