package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-drift/navstack/pkg/assets"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/navigation"
	"github.com/go-drift/navstack/pkg/screen"
)

// DefaultMaxFrames bounds how long one step may run.
const DefaultMaxFrames = 10_000

// ContainerState is a container's contents after a step.
type ContainerState struct {
	Name string
	Kind string
	// Entries are entity ids, bottom first. For sheet containers they are
	// the registered sheets in registration order.
	Entries []string
	// Active is the shown sheet, if any.
	Active string
	Busy   bool
}

// StepResult reports one executed step.
type StepResult struct {
	Index  int
	Step   Step
	Err    error
	Frames int
	// Elapsed is scheduler time spent on the step.
	Elapsed    time.Duration
	Containers []ContainerState
}

// OK reports whether the step behaved as the script expected.
func (r StepResult) OK() bool {
	return (r.Err != nil) == r.Step.ExpectError
}

// Runner executes scripts against a registry. The registry's scheduler is
// stepped manually with the script's frame delta.
type Runner struct {
	reg       *navigation.Registry
	links     *navigation.LinkRouter
	logger    *slog.Logger
	MaxFrames int
}

// NewRunner returns a runner over reg. links may be nil when the config
// has no link routes.
func NewRunner(reg *navigation.Registry, links *navigation.LinkRouter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = reg.Logger()
	}
	return &Runner{reg: reg, links: links, logger: logger, MaxFrames: DefaultMaxFrames}
}

// NewLoader returns a loader that builds every key except the script's
// missing ones.
func NewLoader(s *Script) *assets.MapLoader {
	l := assets.NewMapLoader()
	l.Fallback = func(key string) (any, error) { return key, nil }
	for _, key := range s.Missing {
		l.Register(key, func(key string) (any, error) {
			return nil, fmt.Errorf("asset %q is missing", key)
		})
	}
	return l
}

// Run executes every step in order. It stops at the first step whose
// outcome differs from its expect_error flag and returns that step's
// error; the results so far are returned either way.
func (r *Runner) Run(s *Script) ([]StepResult, error) {
	frame := s.Frame.Std()
	if frame <= 0 {
		frame = DefaultFrame
	}
	results := make([]StepResult, 0, len(s.Steps))
	for i, step := range s.Steps {
		res := r.runStep(i+1, step, frame)
		results = append(results, res)
		r.logger.Debug("step finished",
			"index", res.Index,
			"step", step.String(),
			"frames", res.Frames,
			"error", res.Err)
		if !res.OK() {
			if res.Err == nil {
				return results, fmt.Errorf("step %d (%s): expected an error", res.Index, step)
			}
			return results, fmt.Errorf("step %d (%s): %w", res.Index, step, res.Err)
		}
	}
	return results, nil
}

func (r *Runner) runStep(index int, step Step, frame time.Duration) StepResult {
	sched := r.reg.Scheduler()
	res := StepResult{Index: index, Step: step}
	start := sched.Now()

	var h *async.Handle
	var err error
	switch step.Do {
	case "wait":
		for sched.Now()-start < step.Wait.Std() && res.Frames < r.MaxFrames {
			sched.Step(frame)
			res.Frames++
		}
	case "open":
		if r.links == nil {
			err = fmt.Errorf("no link routes configured")
		} else if !r.links.Open(step.Link) {
			err = fmt.Errorf("no route for link %q", step.Link)
		} else {
			// The open is dispatched, so at least one frame must run.
			sched.Step(frame)
			res.Frames++
			res.Frames += r.drain(frame)
		}
	default:
		h, err = r.start(step)
	}

	if err == nil && h != nil {
		for !h.IsDone() && res.Frames < r.MaxFrames {
			sched.Step(frame)
			res.Frames++
		}
		switch {
		case !h.IsDone():
			err = fmt.Errorf("%s did not finish within %d frames", h.Name(), r.MaxFrames)
		case h.IsFaulted():
			err = h.Err()
		}
		// Disposal of evicted entities runs as separate operations.
		res.Frames += r.drain(frame)
	}

	res.Err = err
	res.Elapsed = sched.Now() - start
	res.Containers = r.Snapshot()
	return res
}

func (r *Runner) drain(frame time.Duration) int {
	sched := r.reg.Scheduler()
	n := 0
	for sched.Pending() > 0 && n < r.MaxFrames {
		sched.Step(frame)
		n++
	}
	return n
}

func (r *Runner) start(step Step) (*async.Handle, error) {
	if step.Do == "back" {
		return r.reg.HandleBack()
	}
	c, ok := r.reg.Container(step.Container)
	if !ok {
		return nil, fmt.Errorf("no container named %q", step.Container)
	}

	var pushOpts []navigation.PushOption
	if step.ID != "" {
		pushOpts = append(pushOpts, navigation.WithID(step.ID))
	}
	if step.Async {
		pushOpts = append(pushOpts, navigation.WithLoadAsync(true))
	}
	var popOpts []navigation.PopOption
	if step.Count > 0 {
		popOpts = append(popOpts, navigation.PopCount(step.Count))
	}
	if step.To != "" {
		popOpts = append(popOpts, navigation.PopTo(step.To))
	}

	switch c := c.(type) {
	case stack:
		switch step.Do {
		case "push":
			return c.Push(step.Key, step.Animate, pushOpts...)
		case "pop":
			return c.Pop(step.Animate, popOpts...)
		case "preload":
			return c.Preload(step.Key, pushOpts...)
		case "release":
			return nil, c.ReleasePreloaded(step.Key)
		}
	case *navigation.SheetContainer:
		switch step.Do {
		case "register":
			return c.Register(step.Key, pushOpts...)
		case "show":
			return c.Show(step.ID, step.Animate)
		case "hide":
			return c.Hide(step.Animate)
		case "unregister":
			return c.Unregister(step.ID)
		}
	}
	return nil, fmt.Errorf("%s is not supported by %s container %q", step.Do, c.Kind(), step.Container)
}

// stack is the API page and modal containers share.
type stack interface {
	navigation.Container
	Push(key string, animate bool, opts ...navigation.PushOption) (*async.Handle, error)
	Pop(animate bool, opts ...navigation.PopOption) (*async.Handle, error)
	Preload(key string, opts ...navigation.PushOption) (*async.Handle, error)
	ReleasePreloaded(key string) error
	Entities() []*screen.Entity
}

// Snapshot returns the state of every container in registration order.
func (r *Runner) Snapshot() []ContainerState {
	var out []ContainerState
	for _, c := range r.reg.Containers() {
		st := ContainerState{Name: c.Name(), Kind: c.Kind().String(), Busy: c.IsInTransition()}
		switch c := c.(type) {
		case stack:
			for _, e := range c.Entities() {
				st.Entries = append(st.Entries, e.ID())
			}
		case *navigation.SheetContainer:
			st.Entries = c.IDs()
			st.Active = c.ActiveID()
		}
		out = append(out, st)
	}
	return out
}
