package navigation

import "github.com/go-drift/navstack/pkg/screen"

// CallbackReceiver observes the transitions of one container. Receivers
// must not mutate the container from a callback.
//
// exit and enter are nil when there is no counterpart; exits lists popped
// entities most recent first.
type CallbackReceiver interface {
	BeforePush(enter, exit *screen.Entity)
	AfterPush(enter, exit *screen.Entity)
	BeforePop(enter *screen.Entity, exits []*screen.Entity)
	AfterPop(enter *screen.Entity, exits []*screen.Entity)
	BeforeShow(enter, exit *screen.Entity)
	AfterShow(enter, exit *screen.Entity)
	BeforeHide(exit *screen.Entity)
	AfterHide(exit *screen.Entity)
}

// CallbackFuncs adapts closures to a CallbackReceiver. Nil fields are
// no-ops. Register a pointer.
type CallbackFuncs struct {
	OnBeforePush func(enter, exit *screen.Entity)
	OnAfterPush  func(enter, exit *screen.Entity)
	OnBeforePop  func(enter *screen.Entity, exits []*screen.Entity)
	OnAfterPop   func(enter *screen.Entity, exits []*screen.Entity)
	OnBeforeShow func(enter, exit *screen.Entity)
	OnAfterShow  func(enter, exit *screen.Entity)
	OnBeforeHide func(exit *screen.Entity)
	OnAfterHide  func(exit *screen.Entity)
}

func (f *CallbackFuncs) BeforePush(enter, exit *screen.Entity) {
	if f.OnBeforePush != nil {
		f.OnBeforePush(enter, exit)
	}
}

func (f *CallbackFuncs) AfterPush(enter, exit *screen.Entity) {
	if f.OnAfterPush != nil {
		f.OnAfterPush(enter, exit)
	}
}

func (f *CallbackFuncs) BeforePop(enter *screen.Entity, exits []*screen.Entity) {
	if f.OnBeforePop != nil {
		f.OnBeforePop(enter, exits)
	}
}

func (f *CallbackFuncs) AfterPop(enter *screen.Entity, exits []*screen.Entity) {
	if f.OnAfterPop != nil {
		f.OnAfterPop(enter, exits)
	}
}

func (f *CallbackFuncs) BeforeShow(enter, exit *screen.Entity) {
	if f.OnBeforeShow != nil {
		f.OnBeforeShow(enter, exit)
	}
}

func (f *CallbackFuncs) AfterShow(enter, exit *screen.Entity) {
	if f.OnAfterShow != nil {
		f.OnAfterShow(enter, exit)
	}
}

func (f *CallbackFuncs) BeforeHide(exit *screen.Entity) {
	if f.OnBeforeHide != nil {
		f.OnBeforeHide(exit)
	}
}

func (f *CallbackFuncs) AfterHide(exit *screen.Entity) {
	if f.OnAfterHide != nil {
		f.OnAfterHide(exit)
	}
}

type receivers struct {
	list []CallbackReceiver
}

func (r *receivers) add(cr CallbackReceiver) {
	if cr == nil {
		return
	}
	for _, existing := range r.list {
		if existing == cr {
			return
		}
	}
	r.list = append(r.list, cr)
}

func (r *receivers) remove(cr CallbackReceiver) {
	for i, existing := range r.list {
		if existing == cr {
			r.list = append(r.list[:i:i], r.list[i+1:]...)
			return
		}
	}
}

func (r *receivers) each(fn func(CallbackReceiver)) {
	for _, cr := range append([]CallbackReceiver(nil), r.list...) {
		fn(cr)
	}
}
