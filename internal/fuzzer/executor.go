package fuzzer

import (
	"log/slog"
	"time"

	"github.com/skodde/dockfuzz/internal/toolkit"
)

// Executor replays a test against a live registry: materialize the layout,
// run each operation with a sanity check after it, tear everything down.
// Strictly sequential; the inter-operation delay is the only suspension
// point. It catches nothing: a fatal condition anywhere ends the process.
type Executor struct {
	Registry *toolkit.Registry
	// Delay between operations, to let effects settle or to allow
	// watching a replay by eye.
	Delay time.Duration
}

// NewExecutor returns an executor bound to a registry.
func NewExecutor(reg *toolkit.Registry, delay time.Duration) *Executor {
	return &Executor{Registry: reg, Delay: delay}
}

// Run replays the test. With pauseBeforeLast the final operation is
// skipped and the live state is left standing, so the step that crashed a
// recorded run can be inspected right before it would execute.
func (e *Executor) Run(test *Test, pauseBeforeLast bool) {
	if !e.Registry.IsEmpty() {
		toolkit.Fatalf("widgets are still registered at the start of a test run: %s", e.Registry.Summary())
	}

	if err := materializeLayout(e.Registry, test.Layout); err != nil {
		toolkit.Fatalf("failed to materialize initial layout: %v", err)
	}

	ops := test.Operations
	if pauseBeforeLast && len(ops) > 0 {
		ops = ops[:len(ops)-1]
	}

	for i, op := range ops {
		op.Execute(e.Registry)
		if op.HasParams() {
			slog.Info("ran operation", "index", i+1, "op", op.Description())
		}
		if e.Delay > 0 {
			time.Sleep(e.Delay)
		}
		e.Registry.CheckSanityAll()
	}

	if pauseBeforeLast {
		return
	}

	teardownAll(e.Registry)

	if !e.Registry.IsEmpty() {
		toolkit.Fatalf("widgets are still registered at the end of a test run: %s", e.Registry.Summary())
	}
}
