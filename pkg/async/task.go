package async

import (
	"time"

	"github.com/go-drift/navstack/pkg/errors"
)

const (
	doEnd = iota
	doFail
	doYield
	doTransit
	doAwait
	doSleep
)

// A Task is one step function of a cooperative operation.
//
// The [Scheduler] calls the Task with the operation's [Coroutine]; the
// returned [Result] decides what happens next: end, fail, yield until the
// next tick, await a [Handle], sleep, or transit to another Task.
//
// Tasks built by the combinators in this package keep internal progress, so
// a Task value must be handed to Scheduler.Run at most once.
type Task func(co *Coroutine) Result

// Result is the return value of a [Task]. Create one with the methods of
// [Coroutine]: End, Fail, Yield, Await, Sleep, Transit.
type Result struct {
	action int
	next   Task
	wait   *Handle
	sleep  time.Duration
	err    error
	errs   []error
}

// Coroutine is the execution context of one operation started with
// [Scheduler.Run]. It must not escape the Task call it was passed to.
type Coroutine struct {
	sched    *Scheduler
	handle   *Handle
	task     Task
	value    any
	waiting  *Handle
	sleeping bool
	wakeAt   time.Duration
}

// Scheduler returns the scheduler running co.
func (co *Coroutine) Scheduler() *Scheduler { return co.sched }

// Handle returns the handle observing co.
func (co *Coroutine) Handle() *Handle { return co.handle }

// Delta returns the time elapsed between the previous tick and the current one.
func (co *Coroutine) Delta() time.Duration { return co.sched.delta }

// Now returns the scheduler time: the sum of every tick delta so far.
func (co *Coroutine) Now() time.Duration { return co.sched.now }

// SetValue sets the payload the operation's handle carries on completion.
func (co *Coroutine) SetValue(v any) { co.value = v }

// End finishes the current Task. Inside a [Chain] the chain moves on to
// its next Task; at the top level the operation completes.
func (co *Coroutine) End() Result {
	return Result{action: doEnd}
}

// Fail terminates the operation as faulted with err. A nil err is End.
func (co *Coroutine) Fail(err error) Result {
	if err == nil {
		return co.End()
	}
	return Result{action: doFail, err: err}
}

// Yield suspends the operation until the next tick. When resumed it runs
// next, or the same Task again when next is nil.
func (co *Coroutine) Yield(next Task) Result {
	return Result{action: doYield, next: next}
}

// Transit switches to next within the same tick.
func (co *Coroutine) Transit(next Task) Result {
	if next == nil {
		panic("async: Transit(nil)")
	}
	return Result{action: doTransit, next: next}
}

// Await ends the current Task once h is terminal.
//
// If h is already completed the operation continues in the same tick; if h
// faulted, the operation faults with h's errors unwrapped; otherwise the
// operation suspends and h is checked again on each following tick.
// A nil h counts as completed.
func (co *Coroutine) Await(h *Handle) Result {
	return Result{action: doAwait, wait: h, next: afterAwait(h)}
}

// Sleep ends the current Task after d of scheduler time has passed.
func (co *Coroutine) Sleep(d time.Duration) Result {
	return Result{action: doSleep, sleep: d, next: End()}
}

func afterAwait(h *Handle) Task {
	return func(co *Coroutine) Result {
		if h != nil && h.IsFaulted() {
			return Result{action: doFail, err: h.Err(), errs: h.Errors()}
		}
		return co.End()
	}
}

// End returns a Task that ends without doing anything.
func End() Task {
	return (*Coroutine).End
}

// Do returns a Task that calls f and ends.
func Do(f func()) Task {
	return func(co *Coroutine) Result {
		f()
		return co.End()
	}
}

// Func returns a Task that calls f and fails with its error, if any.
func Func(f func(co *Coroutine) error) Task {
	return func(co *Coroutine) Result {
		return co.Fail(f(co))
	}
}

// Sleep returns a Task that waits d of scheduler time and ends.
func Sleep(d time.Duration) Task {
	return func(co *Coroutine) Result {
		return co.Sleep(d)
	}
}

// AwaitHandle returns a Task that obtains a handle from start when it first
// runs and awaits it.
func AwaitHandle(start func(co *Coroutine) *Handle) Task {
	return func(co *Coroutine) Result {
		return co.Await(start(co))
	}
}

// Chain returns a Task that runs each of tasks in sequence. Nil tasks are
// skipped. A fault in any task terminates the chain.
func Chain(tasks ...Task) Task {
	var cur Task
	return func(co *Coroutine) Result {
		for cur == nil {
			if len(tasks) == 0 {
				return co.End()
			}
			cur, tasks = tasks[0], tasks[1:]
		}
		res := cur(co)
		switch res.action {
		case doEnd:
			cur = nil
			return Result{action: doTransit}
		case doFail:
			return res
		default:
			if res.next != nil {
				cur = res.next
			}
			res.next = nil
			return res
		}
	}
}

// Then returns a Task that runs t and then next.
func (t Task) Then(next Task) Task {
	return Chain(t, next)
}

// OnFault returns a Task that runs t and calls fn with the error when t
// fails or panics. A panic becomes a [errors.PanicError] fault. The fault
// still propagates; fn only observes it. Cancellation through
// [Scheduler.Stop] never reaches fn because the operation stops executing.
func OnFault(t Task, fn func(err error)) Task {
	return func(co *Coroutine) Result {
		res, perr := guard(t, co)
		if perr != nil {
			fn(perr)
			return Result{action: doFail, err: perr}
		}
		switch res.action {
		case doEnd:
			return res
		case doFail:
			fn(res.err)
			return res
		default:
			if res.next != nil {
				t = res.next
			}
			res.next = nil
			return res
		}
	}
}

func guard(t Task, co *Coroutine) (res Result, err error) {
	defer errors.RecoverInto("async."+co.handle.name, &err)
	return t(co), nil
}

// All returns a Task that starts every non-nil task as its own operation on
// the scheduler and awaits them with [WhenAll]. The branches are interleaved
// by the scheduler, not run in parallel.
func All(name string, tasks ...Task) Task {
	return func(co *Coroutine) Result {
		handles := make([]*Handle, 0, len(tasks))
		for _, t := range tasks {
			if t != nil {
				handles = append(handles, co.sched.Run(name, t))
			}
		}
		return co.Await(WhenAll(handles...))
	}
}

// AwaitAll returns a Task that collects handles from start when it first runs
// and awaits all of them with [WhenAll].
func AwaitAll(start func() []*Handle) Task {
	return func(co *Coroutine) Result {
		return co.Await(WhenAll(start()...))
	}
}

// Defer returns a Task that obtains the Task to run from f when it first
// runs, so work can be built from state earlier tasks produced. A nil Task
// ends immediately.
func Defer(f func() Task) Task {
	var t Task
	started := false
	return func(co *Coroutine) Result {
		if !started {
			started = true
			t = f()
		}
		if t == nil {
			return co.End()
		}
		return t(co)
	}
}
