package fuzzer

import (
	"fmt"
	"log/slog"

	"github.com/skodde/dockfuzz/internal/rng"
	"github.com/skodde/dockfuzz/internal/toolkit"
)

// DefaultOperationsPerTest is how many operations a generated test carries
// unless configured otherwise.
const DefaultOperationsPerTest = 200

// Generator synthesizes random layouts and tests. Operation parameters are
// resolved against a private scratch registry that dry-executes each
// operation as it is generated, so every resolved name reflects the state
// the operation will actually see on replay. Generation never touches the
// caller's world.
type Generator struct {
	rng           *rng.RNG
	mainWindowSeq int
	dockWidgetSeq int
}

// NewGenerator returns a generator drawing from the given RNG.
func NewGenerator(r *rng.RNG) *Generator {
	return &Generator{rng: r}
}

// MainWindow produces a uniquely named main window descriptor with a random
// on-screen rectangle.
func (g *Generator) MainWindow() MainWindowDescriptor {
	g.mainWindowSeq++
	x := g.rng.Int(0, 500)
	y := g.rng.Int(0, 500)
	// Width shares the position distribution. Suspicious, but recorded
	// dumps depend on it; do not change without versioning the dump format.
	width := g.rng.Int(0, 500)
	height := g.rng.Int(700, 1500)

	return MainWindowDescriptor{
		Name:     fmt.Sprintf("MainWindow-%d", g.mainWindowSeq),
		Geometry: toolkit.Rect{X: x, Y: y, Width: width, Height: height},
		Option:   toolkit.MainWindowOptionNone,
	}
}

// DockWidget produces a uniquely named dock widget descriptor. A floating
// descriptor's geometry is always at least its minimum size.
func (g *Generator) DockWidget() DockWidgetDescriptor {
	g.dockWidgetSeq++

	minSize := toolkit.Size{
		Width:  g.rng.Int(150, 600),
		Height: g.rng.Int(150, 600),
	}

	return DockWidgetDescriptor{
		Name:       fmt.Sprintf("DockWidget-%d", g.dockWidgetSeq),
		IsFloating: g.rng.Bool(35),
		IsVisible:  g.rng.Bool(70),
		MinSize:    minSize,
		Geometry: toolkit.Rect{
			X:      g.rng.Int(0, 500),
			Y:      g.rng.Int(0, 500),
			Width:  minSize.Width + g.rng.Int(50, 600),
			Height: minSize.Height + g.rng.Int(50, 600),
		},
	}
}

// DockWidgets produces n dock widget descriptors.
func (g *Generator) DockWidgets(n int) []DockWidgetDescriptor {
	out := make([]DockWidgetDescriptor, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.DockWidget())
	}
	return out
}

// Layout composes one main window and 1 to 10 dock widgets. A single main
// window is a known limitation of the harness, not a bug.
func (g *Generator) Layout() Layout {
	return Layout{
		MainWindows: []MainWindowDescriptor{g.MainWindow()},
		DockWidgets: g.DockWidgets(g.rng.Int(1, 10)),
	}
}

// Test builds one random layout plus numOps random operations. numOps <= 0
// means DefaultOperationsPerTest.
func (g *Generator) Test(numOps int) (*Test, error) {
	if numOps <= 0 {
		numOps = DefaultOperationsPerTest
	}

	layout := g.Layout()

	scratch := toolkit.NewRegistry()
	if err := materializeLayout(scratch, layout); err != nil {
		return nil, fmt.Errorf("generate test: %w", err)
	}
	defer teardownAll(scratch)

	ops := make([]Operation, 0, numOps)
	for i := 0; i < numOps; i++ {
		op := g.randomOperation(scratch)
		// Dry-execute so later operations resolve against the state this
		// one leaves behind.
		op.Execute(scratch)
		ops = append(ops, op)
	}

	return &Test{Layout: layout, Operations: ops}, nil
}

// Tests batch-generates n independent tests.
func (g *Generator) Tests(n, numOps int) ([]*Test, error) {
	tests := make([]*Test, 0, n)
	for i := 0; i < n; i++ {
		t, err := g.Test(numOps)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, nil
}

// randomOperation draws a kind uniformly over the real kinds between the
// sentinels and resolves its parameters against the live registry.
func (g *Generator) randomOperation(reg *toolkit.Registry) Operation {
	kind := OpKind(g.rng.Int(int(OpNone)+1, int(opCount)-1))
	return g.newOperation(reg, kind)
}

func (g *Generator) newOperation(reg *toolkit.Registry, kind OpKind) Operation {
	switch kind {
	case OpAddDockWidget:
		return g.addDockWidgetOp(reg)
	case OpCloseDockWidget:
		return &CloseDockWidgetOp{DockWidgetName: g.dockWidgetName(reg)}
	case OpShowDockWidget:
		return &ShowDockWidgetOp{DockWidgetName: g.dockWidgetName(reg)}
	case OpHideDockWidget:
		return &HideDockWidgetOp{DockWidgetName: g.dockWidgetName(reg)}
	case OpFloatDockWidget:
		return &FloatDockWidgetOp{DockWidgetName: g.dockWidgetName(reg)}
	case OpDockDockWidget:
		return &DockDockWidgetOp{
			DockWidgetName: g.dockWidgetName(reg),
			MainWindowName: g.mainWindowName(reg),
			Location:       g.randomLocation(),
		}
	case OpResizeDockWidget:
		return &ResizeDockWidgetOp{
			DockWidgetName: g.dockWidgetName(reg),
			Width:          g.rng.Int(50, 1200),
			Height:         g.rng.Int(50, 1200),
		}
	case OpMoveFloatingWindow:
		return &MoveFloatingWindowOp{
			DockWidgetName: g.dockWidgetName(reg),
			X:              g.rng.Int(0, 500),
			Y:              g.rng.Int(0, 500),
		}
	case OpCloseMainWindow:
		return &CloseMainWindowOp{MainWindowName: g.mainWindowName(reg)}
	case OpSaveLayout:
		return &SaveLayoutOp{}
	case OpRestoreLayout:
		return &RestoreLayoutOp{}
	default:
		return &DumpStateOp{}
	}
}

// addDockWidgetOp composes the parameter set for an add operation. When no
// dock widget or no main window exists the result has empty params; a test
// must run to completion even from degenerate states.
func (g *Generator) addDockWidgetOp(reg *toolkit.Registry) *AddDockWidgetOp {
	op := &AddDockWidgetOp{}

	dw := g.randomDockWidget(reg)
	if dw == nil {
		slog.Warn("addDockWidget: no dock widgets exist yet")
		return op
	}

	mw := g.randomMainWindow(reg)
	if mw == nil {
		slog.Warn("addDockWidget: no main windows exist yet")
		return op
	}

	op.DockWidgetName = dw.Name()
	op.MainWindowName = mw.Name()

	if g.rng.Bool(50) {
		if rt := g.randomRelativeTo(reg, mw, dw); rt != nil {
			op.RelativeToName = rt.Name()
		}
	}

	op.Location = g.randomLocation()
	op.Option = string(toolkit.MainWindowOptionNone)
	return op
}

// randomDockWidget picks uniformly among the live dock widgets, optionally
// excluding some. Nil when no candidate exists.
func (g *Generator) randomDockWidget(reg *toolkit.Registry, excluding ...*toolkit.DockWidget) *toolkit.DockWidget {
	var candidates []*toolkit.DockWidget
	for _, dw := range reg.DockWidgets() {
		excluded := false
		for _, ex := range excluding {
			if dw == ex {
				excluded = true
				break
			}
		}
		if !excluded {
			candidates = append(candidates, dw)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Int(0, len(candidates)-1)]
}

// randomMainWindow returns the first live main window, if any. The harness
// only ever creates one.
func (g *Generator) randomMainWindow(reg *toolkit.Registry) *toolkit.MainWindow {
	windows := reg.MainWindows()
	if len(windows) == 0 {
		return nil
	}
	return windows[0]
}

// randomRelativeTo picks among the dock widgets sharing the main window's
// top level, excluding the widget being placed. Nil when no candidate.
func (g *Generator) randomRelativeTo(reg *toolkit.Registry, mw *toolkit.MainWindow, excluding *toolkit.DockWidget) *toolkit.DockWidget {
	var candidates []*toolkit.DockWidget
	for _, dw := range reg.DockWidgets() {
		if dw != excluding && dw.Window() == toolkit.Window(mw) {
			candidates = append(candidates, dw)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Int(0, len(candidates)-1)]
}

func (g *Generator) randomLocation() int {
	return g.rng.Int(int(toolkit.LocationLeft), int(toolkit.LocationBottom))
}

func (g *Generator) dockWidgetName(reg *toolkit.Registry) string {
	dw := g.randomDockWidget(reg)
	if dw == nil {
		slog.Warn("no dock widgets exist yet")
		return ""
	}
	return dw.Name()
}

func (g *Generator) mainWindowName(reg *toolkit.Registry) string {
	mw := g.randomMainWindow(reg)
	if mw == nil {
		slog.Warn("no main windows exist yet")
		return ""
	}
	return mw.Name()
}
