package fuzzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skodde/dockfuzz/internal/rng"
	"github.com/skodde/dockfuzz/internal/toolkit"
)

// DefaultDumpPath is where a failing test lands unless configured.
const DefaultDumpPath = "fuzzer_dump.json"

// Options configures a Fuzzer.
type Options struct {
	// Registry is the world state to fuzz. Nil means a fresh one.
	Registry *toolkit.Registry
	// RNG drives every random decision. Nil means entropy-seeded.
	RNG *rng.RNG
	// OperationsPerTest <= 0 means DefaultOperationsPerTest.
	OperationsPerTest int
	// Delay between operations during execution.
	Delay time.Duration
	// DumpOnFailure writes the in-flight test to DumpPath when a fatal
	// condition fires.
	DumpOnFailure bool
	DumpPath      string
}

// Fuzzer owns a widget world and runs generated or recorded tests against
// it. Constructing one registers the process-wide fatal hook that dumps the
// in-flight test before the process dies.
type Fuzzer struct {
	reg           *toolkit.Registry
	gen           *Generator
	exec          *Executor
	rng           *rng.RNG
	opsPerTest    int
	dumpOnFailure bool
	dumpPath      string
	current       *Test
	tracer        trace.Tracer
}

// New builds a harness and installs its fatal hook.
func New(opts Options) *Fuzzer {
	reg := opts.Registry
	if reg == nil {
		reg = toolkit.NewRegistry()
	}
	r := opts.RNG
	if r == nil {
		r = rng.New()
	}
	opsPerTest := opts.OperationsPerTest
	if opsPerTest <= 0 {
		opsPerTest = DefaultOperationsPerTest
	}
	dumpPath := opts.DumpPath
	if dumpPath == "" {
		dumpPath = DefaultDumpPath
	}

	f := &Fuzzer{
		reg:           reg,
		gen:           NewGenerator(r),
		exec:          NewExecutor(reg, opts.Delay),
		rng:           r,
		opsPerTest:    opsPerTest,
		dumpOnFailure: opts.DumpOnFailure,
		dumpPath:      dumpPath,
		tracer:        otel.Tracer("dockfuzz/fuzzer"),
	}
	toolkit.SetFatalHandler(f.onFatal)
	return f
}

// Seed returns the seed driving this harness, for logging and run history.
func (f *Fuzzer) Seed() int64 {
	return f.rng.Seed()
}

// Registry exposes the world state the harness runs against.
func (f *Fuzzer) Registry() *toolkit.Registry {
	return f.reg
}

// Generator exposes the harness's generator, for batch generation without
// execution.
func (f *Fuzzer) Generator() *Generator {
	return f.gen
}

// Fuzz generates numTests random tests and runs them all.
func (f *Fuzzer) Fuzz(ctx context.Context, numTests int) error {
	tests, err := f.gen.Tests(numTests, f.opsPerTest)
	if err != nil {
		return err
	}
	slog.Info("running generated tests", "count", len(tests), "seed", f.Seed())

	for i, test := range tests {
		ctx, span := f.tracer.Start(ctx, "fuzzer.test",
			trace.WithAttributes(
				attribute.Int("test.index", i+1),
				attribute.Int("test.operations", len(test.Operations)),
			))
		f.RunTest(ctx, test, false)
		span.End()
	}
	return nil
}

// ReplayFiles loads recorded tests and runs them in order. Pausing before
// the last operation only makes sense for a single file.
func (f *Fuzzer) ReplayFiles(ctx context.Context, paths []string, pauseBeforeLast bool) error {
	if pauseBeforeLast && len(paths) > 1 {
		return fmt.Errorf("pause-before-last requires a single test file, got %d", len(paths))
	}

	for _, path := range paths {
		test, err := LoadTestFile(path)
		if err != nil {
			return err
		}
		ctx, span := f.tracer.Start(ctx, "fuzzer.replay",
			trace.WithAttributes(
				attribute.String("test.file", path),
				attribute.Int("test.operations", len(test.Operations)),
			))
		f.RunTest(ctx, test, pauseBeforeLast)
		span.End()
	}
	return nil
}

// RunTest executes one test, keeping it reachable for the fatal dump while
// it is in flight.
func (f *Fuzzer) RunTest(_ context.Context, test *Test, pauseBeforeLast bool) {
	f.current = test
	defer func() { f.current = nil }()
	f.exec.Run(test, pauseBeforeLast)
}

// onFatal is the fatal hook: it preserves the in-flight test so the crash
// can be replayed deterministically later. It must finish before the
// process terminates, so it runs synchronously.
func (f *Fuzzer) onFatal(reason string) {
	if !f.dumpOnFailure || f.current == nil {
		return
	}
	if err := f.current.DumpToFile(f.dumpPath); err != nil {
		slog.Error("failed to dump failing test", "path", f.dumpPath, "error", err)
		return
	}
	slog.Info("dumped failing test", "path", f.dumpPath, "reason", reason)
}
