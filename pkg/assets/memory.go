package assets

import (
	"fmt"
	"sync"
	"time"
)

// Factory builds the resource for a key.
type Factory func(key string) (any, error)

// MapLoader is an in-memory Loader backed by per-key factories. LoadAsync
// settles on a new goroutine after Delay; use it with a scheduler's
// Dispatch or poll the handle from a task.
type MapLoader struct {
	// Delay is how long LoadAsync waits before settling.
	Delay time.Duration
	// Fallback builds keys with no registered factory. Nil fails them.
	Fallback Factory

	mu        sync.Mutex
	factories map[string]Factory
	loaded    map[*Handle]struct{}
	released  int
}

// NewMapLoader returns an empty MapLoader.
func NewMapLoader() *MapLoader {
	return &MapLoader{
		factories: make(map[string]Factory),
		loaded:    make(map[*Handle]struct{}),
	}
}

// Register sets the factory for key.
func (l *MapLoader) Register(key string, f Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[key] = f
}

// RegisterValue registers a factory that always returns v.
func (l *MapLoader) RegisterValue(key string, v any) {
	l.Register(key, func(string) (any, error) { return v, nil })
}

// Load implements Loader.
func (l *MapLoader) Load(key string) *Handle {
	h := NewHandle(key)
	l.resolve(h)
	return h
}

// LoadAsync implements Loader.
func (l *MapLoader) LoadAsync(key string) *Handle {
	h := NewHandle(key)
	go func() {
		if l.Delay > 0 {
			time.Sleep(l.Delay)
		}
		l.resolve(h)
	}()
	return h
}

// Release implements Loader.
func (l *MapLoader) Release(h *Handle) {
	if h == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.loaded[h]; ok {
		delete(l.loaded, h)
		l.released++
	}
}

// Live returns the number of successful loads not yet released.
func (l *MapLoader) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.loaded)
}

// Released returns the number of releases of live handles.
func (l *MapLoader) Released() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

func (l *MapLoader) resolve(h *Handle) {
	l.mu.Lock()
	f, ok := l.factories[h.key]
	if !ok && l.Fallback != nil {
		f, ok = l.Fallback, true
	}
	l.mu.Unlock()
	if !ok {
		h.Fail(fmt.Errorf("no asset registered for key %q", h.key))
		return
	}
	v, err := f(h.key)
	if err != nil {
		h.Fail(err)
		return
	}
	l.mu.Lock()
	l.loaded[h] = struct{}{}
	l.mu.Unlock()
	h.Succeed(v)
}
