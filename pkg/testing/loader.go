package testing

import (
	"fmt"
	"sync"

	"github.com/go-drift/navstack/pkg/assets"
)

// Call is one recorded loader call.
type Call struct {
	Op  string // "load", "load-async" or "release"
	Key string
}

func (c Call) String() string { return c.Op + ":" + c.Key }

// RecordingLoader is a synchronous assets.Loader that records every call in
// order. Held keys stay Pending until Finish.
type RecordingLoader struct {
	mu        sync.Mutex
	factories map[string]func() any
	failures  map[string]error
	held      map[string]bool
	pending   map[string][]*assets.Handle
	live      map[*assets.Handle]string
	calls     []Call
}

// NewRecordingLoader returns an empty loader. Unknown keys fail to load.
func NewRecordingLoader() *RecordingLoader {
	return &RecordingLoader{
		factories: make(map[string]func() any),
		failures:  make(map[string]error),
		held:      make(map[string]bool),
		pending:   make(map[string][]*assets.Handle),
		live:      make(map[*assets.Handle]string),
	}
}

// Add registers a resource that loads as view. A nil view loads as a fresh
// placeholder value.
func (l *RecordingLoader) Add(key string, view any) {
	l.AddFactory(key, func() any {
		if view == nil {
			return &struct{ Key string }{key}
		}
		return view
	})
}

// AddFactory registers a resource built by f on every load.
func (l *RecordingLoader) AddFactory(key string, f func() any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[key] = f
	delete(l.failures, key)
}

// Fail makes every load of key fail with err.
func (l *RecordingLoader) Fail(key string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key] = err
}

// Hold keeps loads of key pending until Finish.
func (l *RecordingLoader) Hold(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[key] = true
}

// Finish settles every held load of key and stops holding it.
func (l *RecordingLoader) Finish(key string) {
	l.mu.Lock()
	handles := l.pending[key]
	delete(l.pending, key)
	delete(l.held, key)
	l.mu.Unlock()
	for _, h := range handles {
		l.settle(h)
	}
}

// Load implements assets.Loader.
func (l *RecordingLoader) Load(key string) *assets.Handle {
	return l.load("load", key)
}

// LoadAsync implements assets.Loader.
func (l *RecordingLoader) LoadAsync(key string) *assets.Handle {
	return l.load("load-async", key)
}

// Release implements assets.Loader.
func (l *RecordingLoader) Release(h *assets.Handle) {
	if h == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, Call{Op: "release", Key: h.Key()})
	delete(l.live, h)
}

// Calls returns the recorded calls in order.
func (l *RecordingLoader) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Call(nil), l.calls...)
}

// CallStrings returns the recorded calls as "op:key" strings.
func (l *RecordingLoader) CallStrings() []string {
	calls := l.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Live returns the number of successful loads not yet released.
func (l *RecordingLoader) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

func (l *RecordingLoader) load(op, key string) *assets.Handle {
	h := assets.NewHandle(key)
	l.mu.Lock()
	l.calls = append(l.calls, Call{Op: op, Key: key})
	if l.held[key] {
		l.pending[key] = append(l.pending[key], h)
		l.mu.Unlock()
		return h
	}
	l.mu.Unlock()
	l.settle(h)
	return h
}

func (l *RecordingLoader) settle(h *assets.Handle) {
	l.mu.Lock()
	err, failed := l.failures[h.Key()]
	f, ok := l.factories[h.Key()]
	l.mu.Unlock()
	switch {
	case failed:
		h.Fail(err)
	case !ok:
		h.Fail(fmt.Errorf("no asset registered for key %q", h.Key()))
	default:
		l.mu.Lock()
		l.live[h] = h.Key()
		l.mu.Unlock()
		h.Succeed(f())
	}
}
