package fuzzer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/skodde/dockfuzz/internal/rng"
)

func TestLayoutShape(t *testing.T) {
	g := NewGenerator(rng.New())
	for i := 0; i < 50; i++ {
		layout := g.Layout()
		if len(layout.MainWindows) != 1 {
			t.Fatalf("expected exactly 1 main window, got %d", len(layout.MainWindows))
		}
		if n := len(layout.DockWidgets); n < 1 || n > 10 {
			t.Fatalf("expected 1..10 dock widgets, got %d", n)
		}
	}
}

func TestMainWindowDescriptorRanges(t *testing.T) {
	g := NewGenerator(rng.New())
	for i := 0; i < 200; i++ {
		mwd := g.MainWindow()
		geo := mwd.Geometry
		if geo.X < 0 || geo.X > 500 || geo.Y < 0 || geo.Y > 500 {
			t.Fatalf("position out of range: %+v", geo)
		}
		// Width intentionally shares the position range.
		if geo.Width < 0 || geo.Width > 500 {
			t.Fatalf("width out of range: %+v", geo)
		}
		if geo.Height < 700 || geo.Height > 1500 {
			t.Fatalf("height out of range: %+v", geo)
		}
		if mwd.Option != "none" {
			t.Fatalf("unexpected option %q", mwd.Option)
		}
	}
}

func TestDockWidgetDescriptorBounds(t *testing.T) {
	g := NewGenerator(rng.New())
	for _, dwd := range g.DockWidgets(500) {
		min := dwd.MinSize
		if min.Width < 150 || min.Width > 600 || min.Height < 150 || min.Height > 600 {
			t.Fatalf("min size out of range: %+v", min)
		}
		if dwd.Geometry.Width < min.Width || dwd.Geometry.Height < min.Height {
			t.Fatalf("geometry smaller than min size: %+v < %+v", dwd.Geometry, min)
		}
		if dwd.Geometry.Width > min.Width+600 || dwd.Geometry.Height > min.Height+600 {
			t.Fatalf("geometry extra out of range: %+v for min %+v", dwd.Geometry, min)
		}
	}
}

func TestDescriptorNamesUnique(t *testing.T) {
	g := NewGenerator(rng.New())
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		layout := g.Layout()
		for _, mwd := range layout.MainWindows {
			if seen[mwd.Name] {
				t.Fatalf("duplicate main window name %q", mwd.Name)
			}
			seen[mwd.Name] = true
		}
		for _, dwd := range layout.DockWidgets {
			if seen[dwd.Name] {
				t.Fatalf("duplicate dock widget name %q", dwd.Name)
			}
			seen[dwd.Name] = true
		}
	}
}

func TestGeneratedTestOperationCount(t *testing.T) {
	g := NewGenerator(rng.New())

	test, err := g.Test(25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(test.Operations) != 25 {
		t.Errorf("expected 25 operations, got %d", len(test.Operations))
	}

	test, err = g.Test(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(test.Operations) != DefaultOperationsPerTest {
		t.Errorf("expected default of %d operations, got %d", DefaultOperationsPerTest, len(test.Operations))
	}
}

func TestGeneratedOperationsUseRealKinds(t *testing.T) {
	g := NewGenerator(rng.New())
	test, err := g.Test(200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, op := range test.Operations {
		if op.Kind() <= OpNone || op.Kind() >= opCount {
			t.Fatalf("generated sentinel kind %d", op.Kind())
		}
	}
}

func TestBatchGeneration(t *testing.T) {
	g := NewGenerator(rng.New())
	tests, err := g.Tests(5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tests) != 5 {
		t.Fatalf("expected 5 tests, got %d", len(tests))
	}
	for _, test := range tests {
		if len(test.Operations) != 10 {
			t.Errorf("expected 10 operations, got %d", len(test.Operations))
		}
	}
}

func TestSameSeedSameTests(t *testing.T) {
	a, err := NewGenerator(rng.NewSeeded(99)).Test(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewGenerator(rng.NewSeeded(99)).Test(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(aj, bj) {
		t.Error("same-seed generators produced different tests")
	}
}
