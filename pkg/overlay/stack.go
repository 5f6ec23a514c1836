package overlay

import "sync/atomic"

// Stack is an ordered set of layers, bottom first.
// Stack is not safe for concurrent use.
type Stack struct {
	entries   []*Entry
	listeners map[int]func()
	nextID    int
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{listeners: make(map[int]func())}
}

// Insert adds entry to the stack.
// Positioning: exactly one of below/above may be non-nil.
//   - below non-nil: inserts just below that entry
//   - above non-nil: inserts just above that entry
//   - both nil: inserts at top
//
// Panics if both below AND above are non-nil (ambiguous).
// Panics if entry is already inserted to any stack.
func (s *Stack) Insert(entry *Entry, below, above *Entry) {
	if below != nil && above != nil {
		panic("overlay: both below and above specified")
	}
	if entry.stack != nil {
		panic("overlay: entry already inserted")
	}
	entry.stack = s
	if entry.id == 0 {
		entry.id = atomic.AddUint64(&nextEntryID, 1)
	}

	switch {
	case below != nil:
		if i := s.IndexOf(below); i >= 0 {
			s.insertAt(i, entry)
		} else {
			s.insertAt(0, entry)
		}
	case above != nil:
		if i := s.IndexOf(above); i >= 0 {
			s.insertAt(i+1, entry)
		} else {
			s.entries = append(s.entries, entry)
		}
	default:
		s.entries = append(s.entries, entry)
	}
	s.notify()
}

// InsertAll adds multiple entries. Same positioning logic as Insert; with
// no anchor each entry lands above the previous one.
func (s *Stack) InsertAll(entries []*Entry, below, above *Entry) {
	for _, entry := range entries {
		s.Insert(entry, below, above)
		if below == nil && above == nil && len(entries) > 1 {
			above = entry
		}
	}
}

// MoveBelow moves an inserted entry directly below target. A target that
// is not in the stack moves the entry to the bottom.
func (s *Stack) MoveBelow(entry, target *Entry) {
	if entry == target {
		return
	}
	if entry.stack == s {
		s.detach(entry)
	}
	entry.stack = nil
	s.Insert(entry, target, nil)
}

// Rearrange reorders entries. Entries not in newEntries are removed.
func (s *Stack) Rearrange(newEntries []*Entry) {
	keep := make(map[*Entry]bool, len(newEntries))
	for _, entry := range newEntries {
		keep[entry] = true
	}
	for _, entry := range s.entries {
		if !keep[entry] {
			entry.stack = nil
		}
	}
	for _, entry := range newEntries {
		entry.stack = s
	}
	s.entries = append([]*Entry(nil), newEntries...)
	s.notify()
}

// Entries returns a copy of the layers, bottom first.
func (s *Stack) Entries() []*Entry {
	return append([]*Entry(nil), s.entries...)
}

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.entries) }

// IndexOf returns the z-index of entry, or -1.
func (s *Stack) IndexOf(entry *Entry) int {
	for i, e := range s.entries {
		if e == entry {
			return i
		}
	}
	return -1
}

// Find returns the first entry whose payload is p.
func (s *Stack) Find(p any) *Entry {
	for _, e := range s.entries {
		if e.Payload == p {
			return e
		}
	}
	return nil
}

// OnChange subscribes fn to every change of order or membership.
// Returns an unsubscribe function.
func (s *Stack) OnChange(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		delete(s.listeners, id)
	}
}

func (s *Stack) insertAt(i int, entry *Entry) {
	s.entries = append(s.entries, nil)
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry
}

func (s *Stack) remove(entry *Entry) {
	if entry.stack != s {
		return
	}
	s.detach(entry)
	entry.stack = nil
	s.notify()
}

func (s *Stack) detach(entry *Entry) {
	if i := s.IndexOf(entry); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
}

func (s *Stack) notify() {
	for _, l := range s.listeners {
		l()
	}
}
