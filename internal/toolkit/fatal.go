package toolkit

import (
	"fmt"
	"log/slog"
	"os"
)

// The fatal path is process-wide: a sanity violation or a broken executor
// precondition means the widget world can no longer be trusted, so the run
// stops at the first sign of corruption. The hook gives the harness a chance
// to dump the in-flight test before the process dies.

var (
	fatalHook func(reason string)
	exitFn    = func(code int) { os.Exit(code) }
)

// SetFatalHandler registers a hook invoked synchronously before a fatal
// condition terminates the process. Registered once at harness construction.
func SetFatalHandler(fn func(reason string)) {
	fatalHook = fn
}

// SetExitFunc replaces the process-exit function and returns a restore
// function. Tests use it to observe fatal conditions without dying.
func SetExitFunc(fn func(code int)) (restore func()) {
	prev := exitFn
	exitFn = fn
	return func() { exitFn = prev }
}

// Fatalf reports an unrecoverable condition, runs the fatal hook and
// terminates the process. It does not return.
func Fatalf(format string, args ...any) {
	reason := fmt.Sprintf(format, args...)
	slog.Error("fatal condition", "reason", reason)
	if fatalHook != nil {
		fatalHook(reason)
	}
	exitFn(1)
	// Reached only when the exit func was replaced in tests.
	panic("fatal: " + reason)
}
