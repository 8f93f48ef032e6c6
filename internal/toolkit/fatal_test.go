package toolkit

import (
	"strings"
	"testing"
)

// expectFatal runs fn with the exit func stubbed out and reports whether a
// fatal condition fired, along with its reason.
func expectFatal(t *testing.T, fn func()) (fired bool, reason string) {
	t.Helper()
	restore := SetExitFunc(func(code int) {
		if code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		fired = true
	})
	defer restore()
	defer SetFatalHandler(nil)
	SetFatalHandler(func(r string) { reason = r })

	defer func() {
		// Fatalf panics once the stubbed exit func returns.
		_ = recover()
	}()
	fn()
	return fired, reason
}

func TestFatalfRunsHookBeforeExit(t *testing.T) {
	var order []string
	restore := SetExitFunc(func(int) { order = append(order, "exit") })
	defer restore()
	defer SetFatalHandler(nil)
	SetFatalHandler(func(string) { order = append(order, "hook") })

	func() {
		defer func() { _ = recover() }()
		Fatalf("boom %d", 1)
	}()

	if len(order) != 2 || order[0] != "hook" || order[1] != "exit" {
		t.Errorf("expected hook to run before exit, got %v", order)
	}
}

func TestSanityViolationIsFatal(t *testing.T) {
	r := NewRegistry()
	dw, _ := r.NewDockWidget("DockWidget-1")
	// Corrupt the world: visible with no host.
	dw.visible = true

	fired, reason := expectFatal(t, r.CheckSanityAll)
	if !fired {
		t.Fatal("expected sanity violation to be fatal")
	}
	if !strings.Contains(reason, "no host window") {
		t.Errorf("unexpected reason: %q", reason)
	}
}

func TestSanityUndersizedFloatingWidgetIsFatal(t *testing.T) {
	r := NewRegistry()
	dw, _ := r.NewDockWidget("DockWidget-1")
	dw.SetContentMinSize(Size{Width: 200, Height: 200})
	dw.Show()
	// Corrupt the geometry behind the clamping API's back.
	dw.geometry.Width = 10

	fired, reason := expectFatal(t, r.CheckSanityAll)
	if !fired {
		t.Fatal("expected sanity violation to be fatal")
	}
	if !strings.Contains(reason, "minimum size") {
		t.Errorf("unexpected reason: %q", reason)
	}
}

func TestSanityPassesOnHealthyWorld(t *testing.T) {
	r := NewRegistry()
	mw, _ := r.NewMainWindow("MainWindow-1", MainWindowOptionNone)
	a, _ := r.NewDockWidget("DockWidget-1")
	b, _ := r.NewDockWidget("DockWidget-2")
	mw.AddDockWidget(a, LocationLeft, nil)
	b.SetContentMinSize(Size{Width: 150, Height: 150})
	b.Show()

	if findings := r.sanityFindings(); len(findings) != 0 {
		t.Errorf("expected no findings, got %v", findings)
	}
}
