package navigation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/overlay"
	"github.com/go-drift/navstack/pkg/screen"
)

// BackdropHandler decides how dimming backdrops are created, reused and
// ordered across a modal stack. index is the modal's position in the
// stack; animate mirrors the transition's animate flag. Returned tasks may
// be nil.
//
// CancelEnter and CancelExit undo BeforeEnter and BeforeExit when the
// transition faults before the stack changed. They run synchronously.
type BackdropHandler interface {
	BeforeEnter(layers *ModalLayers, modal *screen.Entity, index int, animate bool) async.Task
	AfterEnter(layers *ModalLayers, modal *screen.Entity, index int, animate bool) async.Task
	BeforeExit(layers *ModalLayers, modal *screen.Entity, index int, animate bool) async.Task
	AfterExit(layers *ModalLayers, modal *screen.Entity, index int, animate bool) async.Task
	CancelEnter(layers *ModalLayers, modal *screen.Entity, index int)
	CancelExit(layers *ModalLayers, modal *screen.Entity, index int)
}

// ModalLayers is the z-ordered layer stack of a modal container: one entry
// per modal plus the backdrops the handler created.
type ModalLayers struct {
	// Stack holds the layers, bottom first.
	Stack *overlay.Stack
	// Fade is the backdrop fade animation.
	Fade animation.Default
	// Alpha is the backdrop alpha when fully shown.
	Alpha float64
	// OnDismiss is wired to dismissible backdrops.
	OnDismiss func()

	modals map[*screen.Entity]*overlay.Entry
	at     func(index int) *screen.Entity
}

var defaultBackdropFade = animation.Default{Kind: animation.KindFade, Length: 200 * time.Millisecond, Curve: animation.Linear}

func newModalLayers(at func(int) *screen.Entity) *ModalLayers {
	return &ModalLayers{
		Stack:  overlay.NewStack(),
		Fade:   defaultBackdropFade,
		Alpha:  0.5,
		modals: make(map[*screen.Entity]*overlay.Entry),
		at:     at,
	}
}

// EntryFor returns the layer of modal, or nil.
func (l *ModalLayers) EntryFor(modal *screen.Entity) *overlay.Entry {
	return l.modals[modal]
}

// EntryAt returns the layer of the modal at index in the modal stack, or
// nil.
func (l *ModalLayers) EntryAt(index int) *overlay.Entry {
	if l.at == nil {
		return nil
	}
	if e := l.at(index); e != nil {
		return l.modals[e]
	}
	return nil
}

// NewBackdrop inserts a fresh, transparent backdrop directly below modal's
// layer.
func (l *ModalLayers) NewBackdrop(modal *screen.Entity) *overlay.Entry {
	b := &overlay.Barrier{MaxAlpha: l.Alpha, Dismissible: l.OnDismiss != nil, OnDismiss: l.OnDismiss}
	entry := overlay.NewEntry("backdrop", b)
	entry.Opaque = true
	l.Stack.Insert(entry, l.EntryFor(modal), nil)
	return entry
}

// FadeBackdrop returns a Task fading the backdrop in or out. Without
// animate the final alpha is applied at once.
func (l *ModalLayers) FadeBackdrop(entry *overlay.Entry, in, animate bool) async.Task {
	b, ok := entry.Payload.(*overlay.Barrier)
	if !ok {
		return nil
	}
	t := animation.Exit
	if in {
		t = animation.Enter
	}
	var anim animation.Animation
	if animate {
		anim = l.Fade.Build(b, t)
	}
	if anim == nil {
		return async.Do(func() {
			if in {
				b.SetAlpha(1)
			} else {
				b.SetAlpha(0)
			}
		})
	}
	player := animation.NewPlayer(anim)
	return async.Chain(async.Do(func() { player.Setup(nil) }), player.Task(nil))
}

// ShowBackdrop snaps entry back to full alpha.
func (l *ModalLayers) ShowBackdrop(entry *overlay.Entry) {
	if b, ok := entry.Payload.(*overlay.Barrier); ok {
		b.SetAlpha(1)
	}
}

// Backdrops returns the backdrop layers currently in the stack, bottom first.
func (l *ModalLayers) Backdrops() []*overlay.Entry {
	var out []*overlay.Entry
	for _, e := range l.Stack.Entries() {
		if _, ok := e.Payload.(*overlay.Barrier); ok {
			out = append(out, e)
		}
	}
	return out
}

func (l *ModalLayers) insertModal(modal *screen.Entity) {
	entry := overlay.NewEntry(modal.ID(), modal)
	l.Stack.Insert(entry, nil, nil)
	l.modals[modal] = entry
}

func (l *ModalLayers) removeModal(modal *screen.Entity) {
	if entry, ok := l.modals[modal]; ok {
		entry.Remove()
		delete(l.modals, modal)
	}
}

// PerModal creates one backdrop for every modal and destroys it with the
// modal.
type PerModal struct {
	backdrops map[*screen.Entity]*overlay.Entry
}

// NewPerModal returns a PerModal handler.
func NewPerModal() *PerModal {
	return &PerModal{backdrops: make(map[*screen.Entity]*overlay.Entry)}
}

func (h *PerModal) BeforeEnter(l *ModalLayers, modal *screen.Entity, _ int, animate bool) async.Task {
	entry := l.NewBackdrop(modal)
	h.backdrops[modal] = entry
	return l.FadeBackdrop(entry, true, animate)
}

func (h *PerModal) AfterEnter(*ModalLayers, *screen.Entity, int, bool) async.Task { return nil }

func (h *PerModal) BeforeExit(l *ModalLayers, modal *screen.Entity, _ int, animate bool) async.Task {
	if entry, ok := h.backdrops[modal]; ok {
		return l.FadeBackdrop(entry, false, animate)
	}
	return nil
}

func (h *PerModal) AfterExit(_ *ModalLayers, modal *screen.Entity, _ int, _ bool) async.Task {
	if entry, ok := h.backdrops[modal]; ok {
		entry.Remove()
		delete(h.backdrops, modal)
	}
	return nil
}

func (h *PerModal) CancelEnter(l *ModalLayers, modal *screen.Entity, index int) {
	h.AfterExit(l, modal, index, false)
}

func (h *PerModal) CancelExit(l *ModalLayers, modal *screen.Entity, _ int) {
	if entry, ok := h.backdrops[modal]; ok {
		l.ShowBackdrop(entry)
	}
}

// FirstOnly keeps a single backdrop for the life of the bottom modal.
// Deeper modals get no backdrop of their own.
type FirstOnly struct {
	backdrop *overlay.Entry
}

// NewFirstOnly returns a FirstOnly handler.
func NewFirstOnly() *FirstOnly { return &FirstOnly{} }

func (h *FirstOnly) BeforeEnter(l *ModalLayers, modal *screen.Entity, index int, animate bool) async.Task {
	if index != 0 {
		return nil
	}
	h.backdrop = l.NewBackdrop(modal)
	return l.FadeBackdrop(h.backdrop, true, animate)
}

func (h *FirstOnly) AfterEnter(*ModalLayers, *screen.Entity, int, bool) async.Task { return nil }

func (h *FirstOnly) BeforeExit(l *ModalLayers, _ *screen.Entity, index int, animate bool) async.Task {
	if index != 0 || h.backdrop == nil {
		return nil
	}
	return l.FadeBackdrop(h.backdrop, false, animate)
}

func (h *FirstOnly) AfterExit(_ *ModalLayers, _ *screen.Entity, index int, _ bool) async.Task {
	if index == 0 && h.backdrop != nil {
		h.backdrop.Remove()
		h.backdrop = nil
	}
	return nil
}

func (h *FirstOnly) CancelEnter(l *ModalLayers, modal *screen.Entity, index int) {
	h.AfterExit(l, modal, index, false)
}

func (h *FirstOnly) CancelExit(l *ModalLayers, _ *screen.Entity, index int) {
	if index == 0 && h.backdrop != nil {
		l.ShowBackdrop(h.backdrop)
	}
}

// ReorderTiming decides when ReorderReuse moves its backdrop relative to
// the modal animation.
type ReorderTiming int

const (
	// ReorderBefore moves the backdrop before the animation plays.
	ReorderBefore ReorderTiming = iota
	// ReorderAfter moves the backdrop after the animation played.
	ReorderAfter
)

func (t ReorderTiming) String() string {
	if t == ReorderAfter {
		return "after"
	}
	return "before"
}

// ParseReorderTiming parses "before" or "after". "" is ReorderBefore.
func ParseReorderTiming(s string) (ReorderTiming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "before":
		return ReorderBefore, nil
	case "after":
		return ReorderAfter, nil
	default:
		return 0, fmt.Errorf("unknown reorder timing %q", s)
	}
}

// ReorderReuse creates one backdrop with the first modal and moves it to
// sit directly behind whichever modal is topmost.
type ReorderReuse struct {
	Timing ReorderTiming

	backdrop *overlay.Entry
	owner    *screen.Entity
}

// NewReorderReuse returns a ReorderReuse handler.
func NewReorderReuse(timing ReorderTiming) *ReorderReuse {
	return &ReorderReuse{Timing: timing}
}

func (h *ReorderReuse) BeforeEnter(l *ModalLayers, modal *screen.Entity, index int, animate bool) async.Task {
	if index == 0 || h.backdrop == nil {
		h.backdrop = l.NewBackdrop(modal)
		h.owner = modal
		return l.FadeBackdrop(h.backdrop, true, animate)
	}
	if h.Timing == ReorderBefore {
		h.moveBelow(l, l.EntryFor(modal))
	}
	return nil
}

func (h *ReorderReuse) AfterEnter(l *ModalLayers, modal *screen.Entity, index int, _ bool) async.Task {
	if index > 0 && h.backdrop != nil && h.Timing == ReorderAfter {
		h.moveBelow(l, l.EntryFor(modal))
	}
	return nil
}

func (h *ReorderReuse) BeforeExit(l *ModalLayers, _ *screen.Entity, index int, animate bool) async.Task {
	if h.backdrop == nil {
		return nil
	}
	if index == 0 {
		return l.FadeBackdrop(h.backdrop, false, animate)
	}
	if h.Timing == ReorderBefore {
		h.moveBelow(l, l.EntryAt(index-1))
	}
	return nil
}

func (h *ReorderReuse) AfterExit(l *ModalLayers, _ *screen.Entity, index int, _ bool) async.Task {
	if h.backdrop == nil {
		return nil
	}
	if index == 0 {
		h.drop()
		return nil
	}
	if h.Timing == ReorderAfter {
		h.moveBelow(l, l.EntryAt(index-1))
	}
	return nil
}

func (h *ReorderReuse) CancelEnter(l *ModalLayers, modal *screen.Entity, index int) {
	switch {
	case h.backdrop == nil:
	case h.owner == modal:
		h.drop()
	case h.Timing == ReorderBefore:
		h.moveBelow(l, l.EntryAt(index-1))
	}
}

func (h *ReorderReuse) CancelExit(l *ModalLayers, modal *screen.Entity, index int) {
	switch {
	case h.backdrop == nil:
	case index == 0:
		l.ShowBackdrop(h.backdrop)
	case h.Timing == ReorderBefore:
		h.moveBelow(l, l.EntryFor(modal))
	}
}

func (h *ReorderReuse) drop() {
	h.backdrop.Remove()
	h.backdrop = nil
	h.owner = nil
}

func (h *ReorderReuse) moveBelow(l *ModalLayers, target *overlay.Entry) {
	if target != nil {
		l.Stack.MoveBelow(h.backdrop, target)
	}
}

// BackdropStrategy names a built-in handler.
type BackdropStrategy string

const (
	StrategyPerModal     BackdropStrategy = "per-modal"
	StrategyFirstOnly    BackdropStrategy = "first-only"
	StrategyReorderReuse BackdropStrategy = "reorder-reuse"
)

// NewBackdropHandler builds a built-in handler by strategy name. "" is
// per-modal.
func NewBackdropHandler(strategy string, timing ReorderTiming) (BackdropHandler, error) {
	switch BackdropStrategy(strings.ToLower(strings.TrimSpace(strategy))) {
	case "", StrategyPerModal:
		return NewPerModal(), nil
	case StrategyFirstOnly:
		return NewFirstOnly(), nil
	case StrategyReorderReuse:
		return NewReorderReuse(timing), nil
	default:
		return nil, fmt.Errorf("unknown backdrop strategy %q", strategy)
	}
}
