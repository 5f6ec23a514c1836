package navigation

import (
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

// InteractionPolicy decides which containers stop accepting input while a
// transition is in flight.
type InteractionPolicy int

const (
	// PerContainer blocks only the container running the transition.
	PerContainer InteractionPolicy = iota
	// Global blocks every container of the registry.
	Global
)

func (p InteractionPolicy) String() string {
	switch p {
	case PerContainer:
		return "container"
	case Global:
		return "global"
	default:
		return fmt.Sprintf("InteractionPolicy(%d)", int(p))
	}
}

// ParseInteractionPolicy parses "container" or "global". "" is PerContainer.
func ParseInteractionPolicy(s string) (InteractionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "container":
		return PerContainer, nil
	case "global":
		return Global, nil
	default:
		return 0, fmt.Errorf("unknown interaction policy %q", s)
	}
}

// interactionLock counts the transitions blocking one container. Under the
// Global policy every container shares the registry's counter, so all of
// them observe the same lock state.
type interactionLock struct {
	policy InteractionPolicy
	own    *atomic.Int32
	global *atomic.Int32
}

func newInteractionLock(policy InteractionPolicy, global *atomic.Int32) *interactionLock {
	return &interactionLock{policy: policy, own: atomic.NewInt32(0), global: global}
}

func (l *interactionLock) acquire() {
	if l.policy == Global {
		l.global.Inc()
		return
	}
	l.own.Inc()
}

func (l *interactionLock) release() {
	c := l.own
	if l.policy == Global {
		c = l.global
	}
	if c.Dec() < 0 {
		c.Store(0)
	}
}

func (l *interactionLock) locked() bool {
	return l.own.Load() > 0 || l.global.Load() > 0
}
