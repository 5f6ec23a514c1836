package screen

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/lifecycle"
)

type recordingView struct {
	name string
	log  *[]string
}

func (v *recordingView) record(s string) { *v.log = append(*v.log, v.name+":"+s) }

func (v *recordingView) Initialize() async.Task {
	return async.Do(func() { v.record("initialize") })
}
func (v *recordingView) WillEnter(tr lifecycle.Transition) async.Task {
	return async.Do(func() { v.record("willEnter:" + tr.Op.String()) })
}
func (v *recordingView) DidEnter(lifecycle.Transition) { v.record("didEnter") }
func (v *recordingView) WillExit(tr lifecycle.Transition) async.Task {
	return async.Do(func() { v.record("willExit:" + tr.Op.String()) })
}
func (v *recordingView) DidExit(lifecycle.Transition) { v.record("didExit") }
func (v *recordingView) Cleanup() async.Task {
	return async.Do(func() { v.record("cleanup") })
}

type fixedAnim struct{ d time.Duration }

func (a fixedAnim) Duration() time.Duration { return a.d }
func (a fixedAnim) SetTime(time.Duration) {}

func run(t *testing.T, s *async.Scheduler, task async.Task) *async.Handle {
	t.Helper()
	h := s.Run("test", task)
	for i := 0; i < 200 && !h.IsDone(); i++ {
		s.Step(16 * time.Millisecond)
	}
	require.True(t, h.IsDone())
	return h
}

func TestEntityFullLifecycle(t *testing.T) {
	var log []string
	view := &recordingView{name: "view", log: &log}
	presenter := &recordingView{name: "presenter", log: &log}
	e := New("a", Page, "home", view)
	require.NoError(t, e.Attach())
	require.NoError(t, e.AddLifecycleEvent(presenter, 1))

	s := async.NewScheduler()
	tr := lifecycle.Transition{Op: lifecycle.Push}

	require.True(t, run(t, s, e.Initialize()).IsCompleted())
	assert.Equal(t, Idle, e.State())

	require.True(t, run(t, s, e.BeforeEnter(tr, animation.PushEnter)).IsCompleted())
	assert.Equal(t, Entering, e.State())
	assert.True(t, e.IsTransitioning())
	assert.Equal(t, animation.PushEnter, e.AnimationType())

	require.True(t, run(t, s, e.Enter(fixedAnim{d: 48 * time.Millisecond}, nil)).IsCompleted())
	assert.Equal(t, 1.0, e.Progress())

	e.AfterEnter(tr)
	assert.Equal(t, Active, e.State())
	assert.False(t, e.IsTransitioning())
	assert.Equal(t, animation.None, e.AnimationType())

	pop := lifecycle.Transition{Op: lifecycle.Pop}
	require.True(t, run(t, s, e.BeforeExit(pop, animation.PopExit)).IsCompleted())
	require.True(t, run(t, s, e.Exit(nil, nil)).IsCompleted())
	e.AfterExit(pop)
	assert.Equal(t, Idle, e.State())

	require.True(t, run(t, s, e.Cleanup()).IsCompleted())
	assert.Equal(t, Released, e.State())

	assert.Equal(t, []string{
		"view:initialize", "presenter:initialize",
		"view:willEnter:push", "presenter:willEnter:push",
		"view:didEnter", "presenter:didEnter",
		"view:willExit:pop", "presenter:willExit:pop",
		"view:didExit", "presenter:didExit",
		"view:cleanup", "presenter:cleanup",
	}, log)
}

func TestEntityProgressIsMonotonic(t *testing.T) {
	e := New("a", Modal, "dialog", nil)
	require.NoError(t, e.Attach())
	s := async.NewScheduler()
	run(t, s, e.Initialize())
	run(t, s, e.BeforeEnter(lifecycle.Transition{Op: lifecycle.Push}, animation.PushEnter))

	var seen []float64
	unsubscribe := e.OnProgress(func(p float64) { seen = append(seen, p) })
	defer unsubscribe()
	run(t, s, e.Enter(fixedAnim{d: 100 * time.Millisecond}, nil))

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.Equal(t, 1.0, seen[len(seen)-1])
}

func TestEntityIllegalTransitions(t *testing.T) {
	e := New("a", Sheet, "settings", nil)
	s := async.NewScheduler()

	h := run(t, s, e.Initialize())
	require.True(t, h.IsFaulted())
	assert.True(t, errors.Is(h.Err(), errors.KindInvalidState))

	require.NoError(t, e.Attach())
	assert.True(t, errors.Is(e.Attach(), errors.KindInvalidState))

	h = run(t, s, e.BeforeExit(lifecycle.Transition{Op: lifecycle.Hide}, animation.Exit))
	assert.True(t, h.IsFaulted(), "an attached entity cannot exit")
}

func TestEntityRollback(t *testing.T) {
	boom := stderrors.New("presenter failed")
	e := New("a", Page, "home", nil)
	require.NoError(t, e.Attach())
	require.NoError(t, e.AddLifecycleEvent(&lifecycle.Funcs{
		OnWillEnter: func(lifecycle.Transition) async.Task {
			return async.Func(func(*async.Coroutine) error { return boom })
		},
	}, 1))
	s := async.NewScheduler()
	run(t, s, e.Initialize())

	h := run(t, s, e.BeforeEnter(lifecycle.Transition{Op: lifecycle.Push}, animation.PushEnter))
	require.True(t, h.IsFaulted())
	assert.Equal(t, boom, h.Err())
	assert.Equal(t, Entering, e.State())

	e.Rollback()
	assert.Equal(t, Idle, e.State())
	assert.False(t, e.IsTransitioning())
	assert.Equal(t, animation.None, e.AnimationType())
}

func TestEntityAfterEnterFinishesWhenParticipantPanics(t *testing.T) {
	e := New("a", Page, "home", nil)
	require.NoError(t, e.Attach())
	require.NoError(t, e.AddLifecycleEvent(&lifecycle.Funcs{
		OnDidEnter: func(lifecycle.Transition) { panic("did enter") },
	}, 1))
	s := async.NewScheduler()
	run(t, s, e.Initialize())
	run(t, s, e.BeforeEnter(lifecycle.Transition{Op: lifecycle.Push}, animation.PushEnter))

	assert.Panics(t, func() { e.AfterEnter(lifecycle.Transition{Op: lifecycle.Push}) })
	assert.Equal(t, Active, e.State())
	assert.False(t, e.IsTransitioning())
}

func TestEntitySettle(t *testing.T) {
	e := New("a", Page, "home", nil)
	require.NoError(t, e.Attach())
	s := async.NewScheduler()
	run(t, s, e.Initialize())

	e.Settle()
	assert.Equal(t, Idle, e.State(), "settle without a transition is a no-op")

	run(t, s, e.BeforeEnter(lifecycle.Transition{Op: lifecycle.Push}, animation.PushEnter))
	e.Settle()
	assert.Equal(t, Active, e.State())
	assert.False(t, e.IsTransitioning())

	run(t, s, e.BeforeExit(lifecycle.Transition{Op: lifecycle.Pop}, animation.PopExit))
	e.Settle()
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, animation.None, e.AnimationType())
}

func TestViewRegisteredAtViewPriority(t *testing.T) {
	var log []string
	view := &recordingView{name: "view", log: &log}
	e := New("a", Page, "home", view)
	early := &lifecycle.Funcs{}
	require.NoError(t, e.AddLifecycleEvent(early, 5))
	require.NoError(t, e.Attach())

	ps := e.Participants()
	require.Len(t, ps, 2)
	assert.Same(t, view, ps[0])

	assert.True(t, e.RemoveLifecycleEvent(early))
	assert.False(t, e.RemoveLifecycleEvent(early))
}

type providerView struct {
	asked []animation.TransitionType
}

func (v *providerView) TransitionAnimation(t animation.TransitionType, partnerID string) animation.Animation {
	v.asked = append(v.asked, t)
	if partnerID == "special" {
		return fixedAnim{d: time.Second}
	}
	return nil
}

func TestAnimationFor(t *testing.T) {
	view := &providerView{}
	e := New("a", Modal, "dialog", view)
	fallback := animation.Default{Kind: animation.KindFade, Length: 10 * time.Millisecond}

	anim := e.AnimationFor(animation.PushEnter, "special", fallback)
	assert.Equal(t, fixedAnim{d: time.Second}, anim)

	anim = e.AnimationFor(animation.PushEnter, "", fallback)
	fade, ok := anim.(*animation.Fade)
	require.True(t, ok)
	assert.Same(t, e, fade.Target)
	assert.Equal(t, []animation.TransitionType{animation.PushEnter, animation.PushEnter}, view.asked)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "modal", Modal.String())
	assert.Equal(t, "released", Released.String())
}
