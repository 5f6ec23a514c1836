package lifecycle

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
)

func recorder(log *[]string, name string) *Funcs {
	return &Funcs{
		OnWillEnter: func(tr Transition) async.Task {
			return async.Do(func() { *log = append(*log, name+":willEnter:"+tr.Op.String()) })
		},
		OnDidEnter: func(Transition) { *log = append(*log, name+":didEnter") },
	}
}

func runToEnd(t *testing.T, s *async.Scheduler, h *async.Handle) {
	t.Helper()
	for i := 0; i < 100 && !h.IsDone(); i++ {
		s.Step(0)
	}
	require.True(t, h.IsDone(), "operation did not finish")
}

func TestPriorityOrdering(t *testing.T) {
	var log []string
	ev := NewEvent[Participant]()
	require.NoError(t, ev.Add(recorder(&log, "p2"), 2))
	require.NoError(t, ev.Add(recorder(&log, "p0"), 0))
	require.NoError(t, ev.Add(recorder(&log, "p1"), 1))

	s := async.NewScheduler()
	h := s.Run("willEnter", ev.Sequential(func(p Participant) async.Task {
		return p.WillEnter(Transition{Op: Push})
	}))
	runToEnd(t, s, h)

	assert.True(t, h.IsCompleted())
	assert.Equal(t, []string{"p0:willEnter:push", "p1:willEnter:push", "p2:willEnter:push"}, log)
}

func TestTiesKeepRegistrationOrder(t *testing.T) {
	var log []string
	ev := NewEvent[Participant]()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, ev.Add(recorder(&log, name), 1))
	}
	require.NoError(t, ev.Add(recorder(&log, "view"), ViewPriority))

	ev.Each(func(p Participant) { p.DidEnter(Transition{}) })
	assert.Equal(t, []string{"view:didEnter", "a:didEnter", "b:didEnter", "c:didEnter"}, log)
}

func TestAddDuplicate(t *testing.T) {
	ev := NewEvent[Participant]()
	p := &Funcs{}
	require.NoError(t, ev.Add(p, 0))
	err := ev.Add(p, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindInvalidState))
	assert.Equal(t, 1, ev.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	ev := NewEvent[Participant]()
	p := &Funcs{}
	require.NoError(t, ev.Add(p, 0))
	assert.True(t, ev.Remove(p))
	assert.False(t, ev.Remove(p))
	assert.Equal(t, 0, ev.Len())
	require.NoError(t, ev.Add(p, 0), "a removed participant may register again")
}

func TestSequentialAwaitsEachParticipant(t *testing.T) {
	var log []string
	gate := async.NewPromise("gate")
	ev := NewEvent[string]()
	require.NoError(t, ev.Add("slow", 0))
	require.NoError(t, ev.Add("fast", 1))

	s := async.NewScheduler()
	h := s.Run("phase", ev.Sequential(func(name string) async.Task {
		log = append(log, "start:"+name)
		if name == "slow" {
			return async.AwaitHandle(func(*async.Coroutine) *async.Handle { return gate.Handle() })
		}
		return nil
	}))

	s.Step(0)
	s.Step(0)
	assert.Equal(t, []string{"start:slow"}, log)

	gate.Resolve(nil)
	runToEnd(t, s, h)
	assert.Equal(t, []string{"start:slow", "start:fast"}, log)
	assert.True(t, h.IsCompleted())
}

func TestSequentialStopsAtFirstFault(t *testing.T) {
	boom := stderrors.New("presenter failed")
	var invoked []int
	ev := NewEvent[int]()
	for i := 0; i < 3; i++ {
		require.NoError(t, ev.Add(i, i))
	}

	s := async.NewScheduler()
	h := s.Run("phase", ev.Sequential(func(i int) async.Task {
		invoked = append(invoked, i)
		if i == 1 {
			return async.Func(func(*async.Coroutine) error { return boom })
		}
		return nil
	}))
	runToEnd(t, s, h)

	assert.Equal(t, []int{0, 1}, invoked)
	assert.Equal(t, boom, h.Err())
}

func TestSequentialSnapshotsParticipants(t *testing.T) {
	var invoked []string
	ev := NewEvent[string]()
	require.NoError(t, ev.Add("a", 0))
	require.NoError(t, ev.Add("b", 1))

	s := async.NewScheduler()
	h := s.Run("phase", ev.Sequential(func(name string) async.Task {
		invoked = append(invoked, name)
		if name == "a" {
			ev.Remove("b")
			_ = ev.Add("late", 5)
		}
		return nil
	}))
	runToEnd(t, s, h)

	assert.Equal(t, []string{"a", "b"}, invoked)
	assert.Equal(t, []string{"a", "late"}, ev.Participants())
}

func TestEmptySequentialCompletes(t *testing.T) {
	s := async.NewScheduler()
	h := s.Run("phase", NewEvent[string]().Sequential(func(string) async.Task {
		t.Fatal("no participant should be invoked")
		return nil
	}))
	s.Step(0)
	assert.True(t, h.IsCompleted())
}

func TestBaseIsNoop(t *testing.T) {
	var p Participant = Base{}
	assert.Nil(t, p.Initialize())
	assert.Nil(t, p.WillEnter(Transition{}))
	assert.Nil(t, p.WillExit(Transition{}))
	assert.Nil(t, p.Cleanup())
	p.DidEnter(Transition{})
	p.DidExit(Transition{})
}

func TestOpString(t *testing.T) {
	for op, want := range map[Op]string{Push: "push", Pop: "pop", Show: "show", Hide: "hide"} {
		assert.Equal(t, want, op.String())
	}
	assert.Equal(t, fmt.Sprintf("Op(%d)", 9), Op(9).String())
}
