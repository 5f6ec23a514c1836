package errors

import (
	stderrors "errors"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to a LogHandler writing to the default slog logger.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler and returns the previous one.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := DefaultHandler
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
	return prev
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *NavError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportFault reports an arbitrary failure observed by op on a container.
// NavErrors are forwarded as-is (with the container filled in when missing),
// panics go to HandlePanic and everything else is wrapped as KindParticipant.
func ReportFault(op, container string, err error) {
	if err == nil {
		return
	}
	var panicErr *PanicError
	if stderrors.As(err, &panicErr) {
		ReportPanic(panicErr)
		return
	}
	var navErr *NavError
	if stderrors.As(err, &navErr) {
		if navErr.Container == "" {
			navErr.Container = container
		}
		Report(navErr)
		return
	}
	kind := KindParticipant
	if _, ok := err.(*AggregateError); ok {
		kind = KindAggregate
	}
	Report(&NavError{Op: op, Kind: kind, Container: container, Err: err})
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(NewPanic(op, r))
	}
}

// RecoverInto converts a panic into a PanicError stored in *dst instead of
// reporting it. The caller decides how the failure propagates.
// Usage: defer errors.RecoverInto("operation.name", &err)
func RecoverInto(op string, dst *error) {
	if r := recover(); r != nil {
		*dst = NewPanic(op, r)
	}
}

// NewPanic builds a PanicError for a recovered value, capturing the stack.
func NewPanic(op string, value any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      value,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
