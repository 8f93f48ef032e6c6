package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBeginFinishRoundTrip(t *testing.T) {
	s := openTestStore(t)

	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	run := Run{
		ID:        uuid.New().String(),
		Mode:      "fuzz",
		Seed:      12345,
		NumTests:  10,
		NumOps:    200,
		DumpPath:  "fuzzer_dump.json",
		StartedAt: started,
	}
	if err := s.Begin(run); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.Finish(run.ID, OutcomePassed, started.Add(time.Minute)); err != nil {
		t.Fatalf("finish: %v", err)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Mode != "fuzz" || got.Seed != 12345 {
		t.Errorf("run changed across round trip: %+v", got)
	}
	if got.Outcome != OutcomePassed {
		t.Errorf("expected outcome %q, got %q", OutcomePassed, got.Outcome)
	}
	if !got.FinishedAt.Equal(started.Add(time.Minute)) {
		t.Errorf("unexpected finish time %v", got.FinishedAt)
	}
}

func TestCrashedRunStaysRunning(t *testing.T) {
	s := openTestStore(t)

	run := Run{ID: uuid.New().String(), Mode: "replay", StartedAt: time.Now()}
	if err := s.Begin(run); err != nil {
		t.Fatalf("begin: %v", err)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Outcome != OutcomeRunning {
		t.Errorf("expected a lone running run, got %+v", runs)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	s := openTestStore(t)
	if err := s.Finish("no-such-run", OutcomeFailed, time.Now()); err == nil {
		t.Fatal("expected an error for an unknown run id")
	}
}

func TestRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{ID: uuid.New().String(), Mode: "fuzz", Seed: int64(i), StartedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.Begin(run); err != nil {
			t.Fatalf("begin %d: %v", i, err)
		}
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Seed != 2 || runs[2].Seed != 0 {
		t.Errorf("expected newest first, got seeds %d,%d,%d", runs[0].Seed, runs[1].Seed, runs[2].Seed)
	}
}
