// Package testing provides deterministic test tooling for navstack.
//
// # Quick Start
//
// Create a harness, build a registry on its scheduler and loader, and pump
// frames until a transition settles:
//
//	func TestPush(t *testing.T) {
//	    h := navtest.NewHarness(t)
//	    h.Loader.Add("home", nil)
//
//	    reg := navigation.NewRegistry(h.Scheduler, h.Loader)
//	    pages, _ := reg.NewPageContainer("main")
//	    handle, _ := pages.Push("home", true)
//
//	    if err := h.RunUntil(handle, 100); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// # Time
//
// Each [Harness.Pump] advances the [FakeClock] by one frame (16ms by
// default) and ticks the scheduler once, so animation progress is exact.
//
// # Recording
//
// [RecordingLoader] logs every load and release in order, and can hold a
// key pending until the test finishes it. [RecordingParticipant] logs
// lifecycle phases into a shared [Log].
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import navtest "github.com/go-drift/navstack/pkg/testing"
package testing
