package navigation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/screen"
	navtest "github.com/go-drift/navstack/pkg/testing"
)

const maxTicks = 500

func newTestRegistry(t *testing.T, opts ...RegistryOption) (*navtest.Harness, *Registry) {
	t.Helper()
	h := navtest.NewHarness(t)
	for _, key := range []string{"A", "B", "C", "D"} {
		h.Loader.Add(key, nil)
	}
	return h, NewRegistry(h.Scheduler, h.Loader, opts...)
}

func settle(t *testing.T, h *navtest.Harness, handle *async.Handle) {
	t.Helper()
	require.NotNil(t, handle)
	require.NoError(t, h.RunUntil(handle, maxTicks))
}

func mustComplete(t *testing.T, h *navtest.Harness, handle *async.Handle, err error) {
	t.Helper()
	require.NoError(t, err)
	settle(t, h, handle)
	require.True(t, handle.IsCompleted(), "handle %s faulted: %v", handle.Name(), handle.Err())
}

func ids(entities []*screen.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID()
	}
	return out
}

// pushAll pushes each key with its key as id and waits for every push.
func pushAll(t *testing.T, h *navtest.Harness, push func(string, bool, ...PushOption) (*async.Handle, error), keys ...string) {
	t.Helper()
	for _, key := range keys {
		handle, err := push(key, false, WithID(key))
		mustComplete(t, h, handle, err)
	}
}

// providerView records every animation lookup and defers to the container
// default.
type providerView struct {
	key   string
	calls *[]string
}

func (v *providerView) TransitionAnimation(t animation.TransitionType, partnerID string) animation.Animation {
	*v.calls = append(*v.calls, fmt.Sprintf("%s:%s:%s", v.key, t, partnerID))
	return nil
}
