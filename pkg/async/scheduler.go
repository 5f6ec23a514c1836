// Package async provides the cooperative, tick-driven scheduling primitive
// used throughout navstack.
//
// # Core Components
//
//   - [Handle]: a write-once future (Pending → Completed | Faulted) that any
//     number of observers may poll or await.
//
//   - [Scheduler]: a single-threaded executor. Each call to [Scheduler.Tick]
//     advances every pending operation once; nothing runs in parallel.
//
//   - [Task] and [Coroutine]: the stackless step functions an operation is
//     made of, composed with [Chain], [All], [OnFault] and friends.
//
//   - [WhenAll]: fan-in that waits for every input and aggregates every fault.
//
// # Basic Usage
//
//	s := async.NewScheduler()
//	h := s.Run("fade", async.Chain(
//	    async.Do(func() { fmt.Println("start") }),
//	    async.Sleep(200*time.Millisecond),
//	    async.Do(func() { fmt.Println("done") }),
//	))
//	for !h.IsDone() {
//	    s.Tick() // once per frame
//	}
package async

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-drift/navstack/pkg/errors"
)

// Scheduler runs cooperative operations, advancing each of them once per tick.
type Scheduler struct {
	clock   Clock
	started bool
	last    time.Time
	now     time.Duration
	delta   time.Duration
	ticks   uint64
	ticking bool
	ops     []*Coroutine

	dispatchMu sync.Mutex
	dispatchQ  []func()
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock Tick reads to compute deltas.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewScheduler creates a scheduler driven by the system clock unless
// WithClock is given.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{clock: SystemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts an operation and returns its handle in the Pending state. The
// task's first step runs on the next tick; operations started while a tick
// is in progress run later in that same tick.
func (s *Scheduler) Run(name string, t Task) *Handle {
	h := newHandle(name)
	if t == nil {
		t = End()
	}
	s.ops = append(s.ops, &Coroutine{sched: s, handle: h, task: t})
	return h
}

// Stop forcibly cancels a pending handle, faulting it with a KindCancelled
// error. An operation behind the handle executes no further steps and runs
// no cleanup. Stopping a handle that is already terminal is an
// InvalidState error.
func (s *Scheduler) Stop(h *Handle) error {
	const op = "async.Scheduler.Stop"
	if h == nil {
		return errors.InvalidState(op, "nil handle")
	}
	if h.IsDone() {
		return errors.InvalidState(op, "handle %q is already %s", h.name, h.state)
	}
	h.fault(errors.New(op, errors.KindCancelled, fmt.Errorf("operation %q cancelled", h.name)), nil)
	return nil
}

// Tick advances every pending operation once, using the time elapsed on the
// clock since the previous Tick as the frame delta. The first tick has a
// zero delta.
func (s *Scheduler) Tick() {
	now := s.clock.Now()
	var delta time.Duration
	if s.started {
		delta = now.Sub(s.last)
	}
	s.started = true
	s.last = now
	s.Step(delta)
}

// Step advances every pending operation once with an explicit frame delta.
// Calls made from inside a running task are ignored.
func (s *Scheduler) Step(delta time.Duration) {
	if s.ticking {
		return
	}
	s.ticking = true
	defer func() { s.ticking = false }()

	s.drainDispatch()

	if delta < 0 {
		delta = 0
	}
	s.delta = delta
	s.now += delta
	s.ticks++

	for i := 0; i < len(s.ops); i++ {
		s.resume(s.ops[i])
	}

	live := s.ops[:0]
	for _, co := range s.ops {
		if !co.handle.IsDone() {
			live = append(live, co)
		}
	}
	clear(s.ops[len(live):])
	s.ops = live
}

// Pending returns the number of operations that have not finished.
func (s *Scheduler) Pending() int {
	n := 0
	for _, co := range s.ops {
		if !co.handle.IsDone() {
			n++
		}
	}
	return n
}

// Ticks returns the number of ticks processed so far.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Now returns the scheduler time: the sum of every tick delta so far.
func (s *Scheduler) Now() time.Duration { return s.now }

// Dispatch queues fn to run on the tick thread at the start of the next
// tick. Safe for concurrent use. Returns false for a nil callback.
func (s *Scheduler) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	s.dispatchMu.Lock()
	s.dispatchQ = append(s.dispatchQ, fn)
	s.dispatchMu.Unlock()
	return true
}

func (s *Scheduler) drainDispatch() {
	s.dispatchMu.Lock()
	queue := s.dispatchQ
	s.dispatchQ = nil
	s.dispatchMu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

func (s *Scheduler) resume(co *Coroutine) {
	if co.handle.IsDone() {
		return
	}
	if co.waiting != nil {
		if !co.waiting.IsDone() {
			return
		}
		co.waiting = nil
	}
	if co.sleeping {
		if s.now < co.wakeAt {
			return
		}
		co.sleeping = false
	}

	for {
		res, err := co.step()
		if co.handle.IsDone() {
			// Stopped from inside its own step.
			return
		}
		if err != nil {
			co.handle.fault(err, nil)
			return
		}
		switch res.action {
		case doEnd:
			co.handle.complete(co.value)
			return
		case doFail:
			co.handle.fault(res.err, res.errs)
			return
		case doTransit:
			if res.next != nil {
				co.task = res.next
			}
		case doYield:
			if res.next != nil {
				co.task = res.next
			}
			return
		case doAwait:
			if res.next != nil {
				co.task = res.next
			}
			if res.wait != nil && !res.wait.IsDone() {
				co.waiting = res.wait
				return
			}
		case doSleep:
			if res.next != nil {
				co.task = res.next
			}
			if res.sleep > 0 {
				co.sleeping = true
				co.wakeAt = s.now + res.sleep
				return
			}
		default:
			panic("async: internal error: unknown action")
		}
	}
}

func (co *Coroutine) step() (Result, error) {
	return guard(co.task, co)
}
