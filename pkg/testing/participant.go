package testing

import (
	"fmt"
	"sync"

	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/lifecycle"
)

// Log is an ordered, concurrency-safe list of recorded events.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// Add appends an entry.
func (l *Log) Add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns the entries in order.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Reset clears the log.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Phase names recorded by RecordingParticipant.
const (
	PhaseInitialize = "initialize"
	PhaseWillEnter  = "will-enter"
	PhaseDidEnter   = "did-enter"
	PhaseWillExit   = "will-exit"
	PhaseDidExit    = "did-exit"
	PhaseCleanup    = "cleanup"
)

// RecordingParticipant logs every lifecycle phase as "name:phase" or, for
// transition phases, "name:phase(op)".
type RecordingParticipant struct {
	Name string
	Log  *Log
	// Delay is the number of ticks each async phase yields before ending.
	Delay int
	// FailOn is the phase that faults instead of ending.
	FailOn string
}

// NewRecordingParticipant returns a participant writing to log.
func NewRecordingParticipant(name string, log *Log) *RecordingParticipant {
	return &RecordingParticipant{Name: name, Log: log}
}

func (p *RecordingParticipant) Initialize() async.Task {
	return p.task(PhaseInitialize, "")
}

func (p *RecordingParticipant) WillEnter(tr lifecycle.Transition) async.Task {
	return p.task(PhaseWillEnter, tr.Op.String())
}

func (p *RecordingParticipant) DidEnter(tr lifecycle.Transition) {
	p.Log.Add("%s:%s(%s)", p.Name, PhaseDidEnter, tr.Op)
}

func (p *RecordingParticipant) WillExit(tr lifecycle.Transition) async.Task {
	return p.task(PhaseWillExit, tr.Op.String())
}

func (p *RecordingParticipant) DidExit(tr lifecycle.Transition) {
	p.Log.Add("%s:%s(%s)", p.Name, PhaseDidExit, tr.Op)
}

func (p *RecordingParticipant) Cleanup() async.Task {
	return p.task(PhaseCleanup, "")
}

func (p *RecordingParticipant) task(phase, op string) async.Task {
	waited := 0
	return func(co *async.Coroutine) async.Result {
		if waited == 0 {
			if op == "" {
				p.Log.Add("%s:%s", p.Name, phase)
			} else {
				p.Log.Add("%s:%s(%s)", p.Name, phase, op)
			}
		}
		if waited < p.Delay {
			waited++
			return co.Yield(nil)
		}
		if p.FailOn == phase {
			return co.Fail(fmt.Errorf("%s: %s failed", p.Name, phase))
		}
		return co.End()
	}
}
