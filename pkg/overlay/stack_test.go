package overlay

import (
	"testing"
)

func names(s *Stack) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewEntry_UniqueIDs(t *testing.T) {
	entry1 := NewEntry("a", nil)
	entry2 := NewEntry("b", nil)

	if entry1.ID() == 0 || entry2.ID() == 0 {
		t.Error("entries should have non-zero IDs")
	}
	if entry1.ID() == entry2.ID() {
		t.Error("entries should have different IDs")
	}
}

func TestEntry_Remove_BeforeInsert(t *testing.T) {
	entry := NewEntry("a", nil)
	// Should not panic
	entry.Remove()
	if entry.Inserted() {
		t.Error("entry should not be inserted")
	}
}

func TestStack_Insert_Positions(t *testing.T) {
	s := NewStack()
	a, b, c, d := NewEntry("a", nil), NewEntry("b", nil), NewEntry("c", nil), NewEntry("d", nil)

	s.Insert(a, nil, nil)
	s.Insert(c, nil, nil)
	s.Insert(b, c, nil)
	s.Insert(d, nil, c)

	if got := names(s); !equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("unexpected order %v", got)
	}
	if s.IndexOf(c) != 2 {
		t.Errorf("expected c at 2, got %d", s.IndexOf(c))
	}
}

func TestStack_Insert_MissingAnchor(t *testing.T) {
	s := NewStack()
	s.Insert(NewEntry("a", nil), nil, nil)
	s.Insert(NewEntry("bottom", nil), NewEntry("ghost", nil), nil)
	s.Insert(NewEntry("top", nil), nil, NewEntry("ghost", nil))

	if got := names(s); !equal(got, []string{"bottom", "a", "top"}) {
		t.Errorf("unexpected order %v", got)
	}
}

func TestStack_Insert_PanicsOnBothBelowAndAbove(t *testing.T) {
	s := NewStack()
	a := NewEntry("a", nil)
	s.Insert(a, nil, nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when both below and above are set")
		}
	}()
	s.Insert(NewEntry("b", nil), a, a)
}

func TestStack_Insert_PanicsOnAlreadyInserted(t *testing.T) {
	s := NewStack()
	a := NewEntry("a", nil)
	s.Insert(a, nil, nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on double insert")
		}
	}()
	s.Insert(a, nil, nil)
}

func TestStack_RemoveAndNotify(t *testing.T) {
	s := NewStack()
	changes := 0
	unsubscribe := s.OnChange(func() { changes++ })

	a := NewEntry("a", nil)
	s.InsertAll([]*Entry{a, NewEntry("b", nil)}, nil, nil)
	a.Remove()
	a.Remove()

	if got := names(s); !equal(got, []string{"b"}) {
		t.Errorf("unexpected order %v", got)
	}
	if changes != 3 {
		t.Errorf("expected 3 change notifications, got %d", changes)
	}

	unsubscribe()
	s.Insert(NewEntry("c", nil), nil, nil)
	if changes != 3 {
		t.Error("unsubscribed listener should not be notified")
	}
}

func TestStack_MoveBelow(t *testing.T) {
	s := NewStack()
	backdrop := NewEntry("backdrop", &Barrier{})
	m1, m2 := NewEntry("m1", nil), NewEntry("m2", nil)
	s.InsertAll([]*Entry{backdrop, m1, m2}, nil, nil)

	s.MoveBelow(backdrop, m2)
	if got := names(s); !equal(got, []string{"m1", "backdrop", "m2"}) {
		t.Errorf("unexpected order %v", got)
	}
	if s.Find(backdrop.Payload) != backdrop {
		t.Error("Find should locate the backdrop by payload")
	}
}

func TestStack_Rearrange(t *testing.T) {
	s := NewStack()
	a, b, c := NewEntry("a", nil), NewEntry("b", nil), NewEntry("c", nil)
	s.InsertAll([]*Entry{a, b, c}, nil, nil)

	s.Rearrange([]*Entry{c, a})
	if got := names(s); !equal(got, []string{"c", "a"}) {
		t.Errorf("unexpected order %v", got)
	}
	if b.Inserted() {
		t.Error("b should have been removed")
	}
}

func TestBarrier(t *testing.T) {
	dismissed := false
	b := &Barrier{MaxAlpha: 0.5, OnDismiss: func() { dismissed = true }}
	b.SetAlpha(1)
	if b.Alpha() != 0.5 {
		t.Errorf("expected alpha 0.5, got %v", b.Alpha())
	}
	if b.Tap() || dismissed {
		t.Error("non-dismissible barrier should absorb the tap")
	}
	b.Dismissible = true
	if !b.Tap() || !dismissed {
		t.Error("dismissible barrier should call OnDismiss")
	}
}
