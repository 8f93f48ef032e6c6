package fuzzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skodde/dockfuzz/internal/rng"
	"github.com/skodde/dockfuzz/internal/toolkit"
)

// runExpectingFatal runs fn with the process exit stubbed out and reports
// whether the fatal path fired.
func runExpectingFatal(t *testing.T, fn func()) (fired bool) {
	t.Helper()
	restore := toolkit.SetExitFunc(func(int) { fired = true })
	defer restore()
	defer func() { _ = recover() }()
	fn()
	return fired
}

func smallTest(t *testing.T, numOps int) *Test {
	t.Helper()
	test, err := NewGenerator(rng.NewSeeded(11)).Test(numOps)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return test
}

func TestRunLeavesRegistryEmpty(t *testing.T) {
	reg := toolkit.NewRegistry()
	exec := NewExecutor(reg, 0)

	exec.Run(smallTest(t, 40), false)

	if !reg.IsEmpty() {
		t.Errorf("expected empty registry after teardown, have %s", reg.Summary())
	}
}

func TestRunNonEmptyRegistryIsFatal(t *testing.T) {
	reg := toolkit.NewRegistry()
	if _, err := reg.NewDockWidget("leftover"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exec := NewExecutor(reg, 0)

	if !runExpectingFatal(t, func() { exec.Run(smallTest(t, 5), false) }) {
		t.Fatal("expected a fatal condition when starting with a dirty registry")
	}
}

func TestPauseBeforeLastSkipsFinalOperationAndTeardown(t *testing.T) {
	reg := toolkit.NewRegistry()
	exec := NewExecutor(reg, 0)

	// Hand-built so the final operation's effect is unambiguous: running
	// it would destroy the only main window.
	test := &Test{
		Layout: Layout{
			MainWindows: []MainWindowDescriptor{{
				Name:     "MainWindow-1",
				Geometry: toolkit.Rect{Width: 400, Height: 800},
				Option:   toolkit.MainWindowOptionNone,
			}},
			DockWidgets: []DockWidgetDescriptor{
				{Name: "DockWidget-1", MinSize: toolkit.Size{Width: 150, Height: 150}},
			},
		},
		Operations: []Operation{
			&AddDockWidgetOp{DockWidgetName: "DockWidget-1", MainWindowName: "MainWindow-1", Location: int(toolkit.LocationLeft), Option: "none"},
			&CloseMainWindowOp{MainWindowName: "MainWindow-1"},
		},
	}

	exec.Run(test, true)

	if reg.IsEmpty() {
		t.Fatal("expected live state left standing when paused")
	}
	if reg.MainWindow("MainWindow-1") == nil {
		t.Error("expected the final operation to be skipped")
	}

	// Cleanup for other tests sharing process-wide fatal state.
	teardownAll(reg)
}

func TestFuzzRunsAllTests(t *testing.T) {
	reg := toolkit.NewRegistry()
	f := New(Options{
		Registry:          reg,
		RNG:               rng.NewSeeded(5),
		OperationsPerTest: 30,
	})
	defer toolkit.SetFatalHandler(nil)

	if err := f.Fuzz(context.Background(), 3); err != nil {
		t.Fatalf("fuzz: %v", err)
	}
	if !reg.IsEmpty() {
		t.Errorf("expected empty registry after fuzzing, have %s", reg.Summary())
	}
}

func TestReplayFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")
	if err := smallTest(t, 20).DumpToFile(path); err != nil {
		t.Fatalf("dump: %v", err)
	}

	reg := toolkit.NewRegistry()
	f := New(Options{Registry: reg, RNG: rng.NewSeeded(5)})
	defer toolkit.SetFatalHandler(nil)

	if err := f.ReplayFiles(context.Background(), []string{path}, false); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !reg.IsEmpty() {
		t.Errorf("expected empty registry after replay, have %s", reg.Summary())
	}
}

func TestReplayPauseRequiresSingleFile(t *testing.T) {
	f := New(Options{RNG: rng.NewSeeded(5)})
	defer toolkit.SetFatalHandler(nil)

	err := f.ReplayFiles(context.Background(), []string{"a.json", "b.json"}, true)
	if err == nil {
		t.Fatal("expected an error for pause with multiple files")
	}
	if !strings.Contains(err.Error(), "single test file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFatalHookDumpsInFlightTest(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "fuzzer_dump.json")
	reg := toolkit.NewRegistry()
	f := New(Options{
		Registry:      reg,
		RNG:           rng.NewSeeded(5),
		DumpOnFailure: true,
		DumpPath:      dumpPath,
	})
	defer toolkit.SetFatalHandler(nil)

	// Dirty the registry so the executor precondition trips mid-run.
	if _, err := reg.NewDockWidget("leftover"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	test := smallTest(t, 5)
	if !runExpectingFatal(t, func() { f.RunTest(context.Background(), test, false) }) {
		t.Fatal("expected a fatal condition")
	}

	dumped, err := LoadTestFile(dumpPath)
	if err != nil {
		t.Fatalf("expected a dump file: %v", err)
	}
	if len(dumped.Operations) != len(test.Operations) {
		t.Errorf("dumped test has %d operations, want %d", len(dumped.Operations), len(test.Operations))
	}
}

func TestFatalHookRespectsDumpFlag(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "fuzzer_dump.json")
	reg := toolkit.NewRegistry()
	f := New(Options{
		Registry: reg,
		RNG:      rng.NewSeeded(5),
		DumpPath: dumpPath,
	})
	defer toolkit.SetFatalHandler(nil)

	if _, err := reg.NewDockWidget("leftover"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !runExpectingFatal(t, func() { f.RunTest(context.Background(), smallTest(t, 5), false) }) {
		t.Fatal("expected a fatal condition")
	}

	if _, err := os.Stat(dumpPath); err == nil {
		t.Error("expected no dump file when dumping is disabled")
	}
}
