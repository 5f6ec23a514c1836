package async

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/errors"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

// yieldOnce suspends until the next tick the first time it runs.
func yieldOnce() Task {
	yielded := false
	return func(co *Coroutine) Result {
		if !yielded {
			yielded = true
			return co.Yield(nil)
		}
		return co.End()
	}
}

func TestRunStartsOnNextTick(t *testing.T) {
	s := NewScheduler()
	ran := false
	h := s.Run("op", Do(func() { ran = true }))

	assert.Equal(t, Pending, h.State())
	assert.False(t, ran)
	assert.Equal(t, 1, s.Pending())

	s.Step(0)
	assert.True(t, ran)
	assert.True(t, h.IsCompleted())
	assert.Equal(t, 0, s.Pending())
}

func TestAwaitCompletedResumesSameTick(t *testing.T) {
	s := NewScheduler()
	var log []string
	h := s.Run("op", Chain(
		Do(func() { log = append(log, "a") }),
		AwaitHandle(func(*Coroutine) *Handle { return Done("ready", nil) }),
		Do(func() { log = append(log, "b") }),
	))

	s.Step(0)
	assert.True(t, h.IsCompleted())
	assert.Equal(t, []string{"a", "b"}, log)
}

func TestAwaitPendingSuspends(t *testing.T) {
	s := NewScheduler()
	p := NewPromise("load")
	after := false
	h := s.Run("op", Chain(
		AwaitHandle(func(*Coroutine) *Handle { return p.Handle() }),
		Do(func() { after = true }),
	))

	s.Step(0)
	s.Step(0)
	assert.False(t, after)
	assert.False(t, h.IsDone())

	p.Resolve(nil)
	s.Step(0)
	assert.True(t, after)
	assert.True(t, h.IsCompleted())
}

func TestAwaitFaultPropagatesUnwrapped(t *testing.T) {
	s := NewScheduler()
	inner := stderrors.New("load failed")
	reached := false
	h := s.Run("op", Chain(
		AwaitHandle(func(*Coroutine) *Handle { return Failed("load", inner) }),
		Do(func() { reached = true }),
	))

	s.Step(0)
	require.True(t, h.IsFaulted())
	assert.Equal(t, inner, h.Err())
	assert.False(t, reached)
}

func TestNestedChainFault(t *testing.T) {
	s := NewScheduler()
	boom := stderrors.New("boom")
	var log []string
	h := s.Run("op", Chain(
		Do(func() { log = append(log, "first") }),
		Chain(
			Func(func(*Coroutine) error { return boom }),
			Do(func() { log = append(log, "inner-after") }),
		),
		Do(func() { log = append(log, "outer-after") }),
	))

	s.Step(0)
	require.True(t, h.IsFaulted())
	assert.Equal(t, boom, h.Err())
	assert.Equal(t, []string{"first"}, log)
}

func TestOnFaultObservesWithoutSwallowing(t *testing.T) {
	s := NewScheduler()
	boom := stderrors.New("boom")
	var seen error
	h := s.Run("op", OnFault(Chain(
		yieldOnce(),
		Func(func(*Coroutine) error { return boom }),
	), func(err error) { seen = err }))

	s.Step(0)
	assert.Nil(t, seen)
	s.Step(0)
	assert.Equal(t, boom, seen)
	assert.Equal(t, boom, h.Err())
}

func TestOnFaultObservesPanic(t *testing.T) {
	s := NewScheduler()
	var seen error
	h := s.Run("op", OnFault(Chain(
		yieldOnce(),
		Do(func() { panic("bad step") }),
		Do(func() { t.Fatal("chain continued after panic") }),
	), func(err error) { seen = err }))

	s.Step(0)
	assert.Nil(t, seen)
	assert.NotPanics(t, func() { s.Step(0) })

	var panicErr *errors.PanicError
	require.True(t, stderrors.As(seen, &panicErr))
	assert.Equal(t, "bad step", panicErr.Value)
	assert.Equal(t, "async.op", panicErr.Op)
	require.True(t, h.IsFaulted())
	assert.Equal(t, seen, h.Err())
}

func TestAllInterleavesBranches(t *testing.T) {
	s := NewScheduler()
	var log []string
	h := s.Run("op", All("branch",
		Chain(Do(func() { log = append(log, "a1") }), yieldOnce(), Do(func() { log = append(log, "a2") })),
		Do(func() { log = append(log, "b1") }),
	))

	s.Step(0)
	assert.Equal(t, []string{"a1", "b1"}, log)
	assert.False(t, h.IsDone())

	s.Step(0)
	assert.Equal(t, []string{"a1", "b1", "a2"}, log)
	s.Step(0)
	assert.True(t, h.IsCompleted())
}

func TestAllAggregatesFaults(t *testing.T) {
	s := NewScheduler()
	e1, e2 := stderrors.New("E1"), stderrors.New("E2")
	h := s.Run("op", All("branch",
		Func(func(*Coroutine) error { return e1 }),
		Chain(yieldOnce(), Func(func(*Coroutine) error { return e2 })),
	))

	s.Step(0)
	assert.False(t, h.IsDone())
	s.Step(0)
	s.Step(0)
	require.True(t, h.IsFaulted())
	assert.Equal(t, []error{e1, e2}, h.Errors())
	assert.Equal(t, e1, h.Err())
}

func TestSleepUsesSchedulerTime(t *testing.T) {
	s := NewScheduler()
	h := s.Run("op", Sleep(100*time.Millisecond))

	s.Step(0)
	s.Step(50 * time.Millisecond)
	assert.False(t, h.IsDone())
	s.Step(50 * time.Millisecond)
	assert.True(t, h.IsCompleted())
}

func TestTickComputesDeltaFromClock(t *testing.T) {
	clk := &manualClock{now: time.Unix(0, 0)}
	s := NewScheduler(WithClock(clk))
	var deltas []time.Duration
	s.Run("op", func(co *Coroutine) Result {
		deltas = append(deltas, co.Delta())
		if len(deltas) == 3 {
			return co.End()
		}
		return co.Yield(nil)
	})

	s.Tick()
	clk.now = clk.now.Add(16 * time.Millisecond)
	s.Tick()
	clk.now = clk.now.Add(20 * time.Millisecond)
	s.Tick()

	assert.Equal(t, []time.Duration{0, 16 * time.Millisecond, 20 * time.Millisecond}, deltas)
	assert.Equal(t, 36*time.Millisecond, s.Now())
	assert.Equal(t, uint64(3), s.Ticks())
}

func TestStop(t *testing.T) {
	s := NewScheduler()
	steps := 0
	h := s.Run("transition", Chain(
		Do(func() { steps++ }),
		yieldOnce(),
		Do(func() { steps++ }),
	))

	s.Step(0)
	require.NoError(t, s.Stop(h))
	require.True(t, h.IsFaulted())
	assert.True(t, errors.Is(h.Err(), errors.KindCancelled))

	s.Step(0)
	assert.Equal(t, 1, steps, "a stopped operation runs no further steps")
	assert.Equal(t, 0, s.Pending())

	err := s.Stop(h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindInvalidState))
	assert.True(t, errors.Is(s.Stop(nil), errors.KindInvalidState))
}

func TestPanicFaultsOperation(t *testing.T) {
	s := NewScheduler()
	h := s.Run("op", Do(func() { panic("bad participant") }))
	other := s.Run("other", End())

	assert.NotPanics(t, func() { s.Step(0) })
	require.True(t, h.IsFaulted())
	var panicErr *errors.PanicError
	require.True(t, stderrors.As(h.Err(), &panicErr))
	assert.Equal(t, "bad participant", panicErr.Value)
	assert.True(t, other.IsCompleted())
}

func TestSetValue(t *testing.T) {
	s := NewScheduler()
	h := s.Run("register", func(co *Coroutine) Result {
		co.SetValue("sheet-1")
		return co.End()
	})
	s.Step(0)
	id, ok := ValueAs[string](h)
	require.True(t, ok)
	assert.Equal(t, "sheet-1", id)
}

func TestDispatchFromGoroutine(t *testing.T) {
	s := NewScheduler()
	p := NewPromise("bg")
	h := s.Run("op", AwaitHandle(func(*Coroutine) *Handle { return p.Handle() }))
	s.Step(0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Dispatch(func() { p.Resolve("done") })
	}()
	wg.Wait()

	s.Step(0)
	assert.True(t, h.IsCompleted())
	assert.False(t, s.Dispatch(nil))
}

func TestAwaitAll(t *testing.T) {
	s := NewScheduler()
	a, b := NewPromise("a"), NewPromise("b")
	h := s.Run("op", AwaitAll(func() []*Handle { return []*Handle{a.Handle(), b.Handle()} }))
	s.Step(0)
	a.Resolve(nil)
	s.Step(0)
	assert.False(t, h.IsDone())
	b.Resolve(nil)
	s.Step(0)
	assert.True(t, h.IsCompleted())
}
