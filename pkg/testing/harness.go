package testing

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
)

// DefaultFrame is the time one Pump advances the clock by.
const DefaultFrame = 16 * time.Millisecond

// ErrSettleTimeout is returned when RunUntil or Settle run out of ticks.
var ErrSettleTimeout = stderrors.New("navtest: scheduler did not settle")

// Harness drives a scheduler from a fake clock and captures every error
// reported to the errors package while it is installed.
type Harness struct {
	Clock     *FakeClock
	Scheduler *async.Scheduler
	Loader    *RecordingLoader
	Frame     time.Duration

	mu       sync.Mutex
	reported []*errors.NavError
	panics   []*errors.PanicError
	prev     errors.ErrorHandler
}

// NewHarness creates a harness and installs it as the error handler until
// t finishes.
func NewHarness(t testing.TB) *Harness {
	clk := NewFakeClock()
	h := &Harness{
		Clock:     clk,
		Scheduler: async.NewScheduler(async.WithClock(clk)),
		Loader:    NewRecordingLoader(),
		Frame:     DefaultFrame,
	}
	h.prev = errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(h.prev) })
	return h
}

// Pump advances the clock by one frame and ticks the scheduler once.
func (h *Harness) Pump() {
	h.Clock.Advance(h.Frame)
	h.Scheduler.Tick()
}

// PumpN pumps n frames.
func (h *Harness) PumpN(n int) {
	for i := 0; i < n; i++ {
		h.Pump()
	}
}

// RunUntil pumps until handle is terminal, at most maxTicks frames.
func (h *Harness) RunUntil(handle *async.Handle, maxTicks int) error {
	for i := 0; i < maxTicks; i++ {
		if handle.IsDone() {
			return nil
		}
		h.Pump()
	}
	if handle.IsDone() {
		return nil
	}
	return ErrSettleTimeout
}

// Settle pumps at least once and then until the scheduler has no pending
// operation, at most maxTicks frames.
func (h *Harness) Settle(maxTicks int) error {
	for i := 0; i < maxTicks; i++ {
		h.Pump()
		if h.Scheduler.Pending() == 0 {
			return nil
		}
	}
	return ErrSettleTimeout
}

// Reported returns the errors reported since the harness was created.
func (h *Harness) Reported() []*errors.NavError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.NavError(nil), h.reported...)
}

// Panics returns the panics reported since the harness was created.
func (h *Harness) Panics() []*errors.PanicError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.PanicError(nil), h.panics...)
}

// HandleError implements errors.ErrorHandler.
func (h *Harness) HandleError(err *errors.NavError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reported = append(h.reported, err)
}

// HandlePanic implements errors.ErrorHandler.
func (h *Harness) HandlePanic(err *errors.PanicError) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panics = append(h.panics, err)
}
