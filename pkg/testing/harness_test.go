package testing

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/assets"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/lifecycle"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	clk.Advance(-time.Second)

	assert.Equal(t, 100*time.Millisecond, clk.Now().Sub(start))
	assert.Equal(t, 100*time.Millisecond, clk.Elapsed())
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clk.Set(target)
	assert.True(t, clk.Now().Equal(target))
}

func TestHarness_PumpAdvancesSchedulerTime(t *testing.T) {
	h := NewHarness(t)
	h.PumpN(3)

	// The first tick has no delta.
	assert.Equal(t, 2*DefaultFrame, h.Scheduler.Now())
	assert.Equal(t, uint64(3), h.Scheduler.Ticks())
}

func TestHarness_RunUntil(t *testing.T) {
	h := NewHarness(t)
	handle := h.Scheduler.Run("sleep", async.Sleep(50*time.Millisecond))

	require.NoError(t, h.RunUntil(handle, 10))
	assert.True(t, handle.IsCompleted())

	never := h.Scheduler.Run("never", func(co *async.Coroutine) async.Result { return co.Yield(nil) })
	assert.ErrorIs(t, h.RunUntil(never, 5), ErrSettleTimeout)
	require.NoError(t, h.Scheduler.Stop(never))
	assert.NoError(t, h.Settle(2))
}

func TestHarness_CapturesReports(t *testing.T) {
	h := NewHarness(t)
	errors.Report(errors.InvalidState("op", "busy"))
	errors.ReportPanic(errors.NewPanic("op", "boom"))

	require.Len(t, h.Reported(), 1)
	assert.Equal(t, errors.KindInvalidState, h.Reported()[0].Kind)
	require.Len(t, h.Panics(), 1)
}

func TestRecordingLoader(t *testing.T) {
	l := NewRecordingLoader()
	l.Add("home", "home-view")
	l.Fail("broken", stderrors.New("corrupt"))

	home := l.Load("home")
	assert.Equal(t, assets.Success, home.Status())
	assert.Equal(t, "home-view", home.Result())

	broken := l.LoadAsync("broken")
	assert.Equal(t, assets.Failed, broken.Status())
	assert.EqualError(t, broken.Err(), "corrupt")

	missing := l.Load("missing")
	assert.Equal(t, assets.Failed, missing.Status())

	assert.Equal(t, 1, l.Live())
	l.Release(home)
	assert.Equal(t, 0, l.Live())
	assert.Equal(t, []string{"load:home", "load-async:broken", "load:missing", "release:home"}, l.CallStrings())
}

func TestRecordingLoader_Hold(t *testing.T) {
	l := NewRecordingLoader()
	l.Add("slow", nil)
	l.Hold("slow")

	h := l.LoadAsync("slow")
	assert.Equal(t, assets.Pending, h.Status())

	l.Finish("slow")
	assert.Equal(t, assets.Success, h.Status())
	assert.NotNil(t, h.Result())
}

func TestRecordingParticipant(t *testing.T) {
	h := NewHarness(t)
	log := &Log{}
	p := NewRecordingParticipant("A", log)
	p.Delay = 2

	handle := h.Scheduler.Run("will-enter", p.WillEnter(lifecycle.Transition{Op: lifecycle.Push}))
	h.PumpN(2)
	assert.False(t, handle.IsDone())
	require.NoError(t, h.RunUntil(handle, 5))
	p.DidEnter(lifecycle.Transition{Op: lifecycle.Push})

	assert.Equal(t, []string{"A:will-enter(push)", "A:did-enter(push)"}, log.Entries())

	p.FailOn = PhaseCleanup
	failed := h.Scheduler.Run("cleanup", p.Cleanup())
	require.NoError(t, h.RunUntil(failed, 10))
	assert.True(t, failed.IsFaulted())

	log.Reset()
	assert.Empty(t, log.Entries())
}
