// Package fuzzer implements the random test generation and replay engine:
// descriptor generation, the closed set of layout-mutating operations, the
// sequential executor with sanity checks, and JSON persistence of failing
// scenarios.
package fuzzer

import (
	"fmt"
	"log/slog"

	"github.com/skodde/dockfuzz/internal/toolkit"
)

// OpKind enumerates the operation set. OpNone and opCount are sentinels
// bounding the random draw; they never appear in a generated test.
type OpKind int

const (
	OpNone OpKind = iota
	OpAddDockWidget
	OpCloseDockWidget
	OpShowDockWidget
	OpHideDockWidget
	OpFloatDockWidget
	OpDockDockWidget
	OpResizeDockWidget
	OpMoveFloatingWindow
	OpCloseMainWindow
	OpSaveLayout
	OpRestoreLayout
	OpDumpState
	opCount
)

var kindTags = map[OpKind]string{
	OpAddDockWidget:      "addDockWidget",
	OpCloseDockWidget:    "closeDockWidget",
	OpShowDockWidget:     "showDockWidget",
	OpHideDockWidget:     "hideDockWidget",
	OpFloatDockWidget:    "floatDockWidget",
	OpDockDockWidget:     "dockDockWidget",
	OpResizeDockWidget:   "resizeDockWidget",
	OpMoveFloatingWindow: "moveFloatingWindow",
	OpCloseMainWindow:    "closeMainWindow",
	OpSaveLayout:         "saveLayout",
	OpRestoreLayout:      "restoreLayout",
	OpDumpState:          "dumpState",
}

// Tag returns the stable string tag used in serialized tests.
func (k OpKind) Tag() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "none"
}

// Operation is one layout-mutating step of a test. Parameters are resolved
// at creation time and baked in; Execute only looks names up again because
// earlier operations may have destroyed their targets, which is a logged
// no-op rather than an error.
type Operation interface {
	Kind() OpKind
	// HasParams distinguishes parameterized operations from no-arg ones
	// like dumpState. It is kind-level: a degenerate instance whose
	// resolution found no candidates still reports true.
	HasParams() bool
	Description() string
	Execute(reg *toolkit.Registry)
}

// AddDockWidgetOp docks a widget into a main window at a location,
// optionally beside another widget already docked there. Empty names mean
// resolution found no candidates; executing such an instance is a no-op.
type AddDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
	MainWindowName string `json:"mainWindowName,omitempty"`
	RelativeToName string `json:"relativeToName,omitempty"`
	Location       int    `json:"location,omitempty"`
	Option         string `json:"option,omitempty"`
}

func (o *AddDockWidgetOp) Kind() OpKind { return OpAddDockWidget }
func (o *AddDockWidgetOp) HasParams() bool { return true }

func (o *AddDockWidgetOp) Description() string {
	desc := fmt.Sprintf("addDockWidget %s into %s at %s", o.DockWidgetName, o.MainWindowName, toolkit.Location(o.Location))
	if o.RelativeToName != "" {
		desc += " relativeTo " + o.RelativeToName
	}
	return desc
}

func (o *AddDockWidgetOp) Execute(reg *toolkit.Registry) {
	if o.DockWidgetName == "" || o.MainWindowName == "" {
		logDegenerate(o)
		return
	}
	dw := reg.DockWidget(o.DockWidgetName)
	mw := reg.MainWindow(o.MainWindowName)
	if dw == nil || mw == nil {
		logMissingTarget(o)
		return
	}
	var rel *toolkit.DockWidget
	if o.RelativeToName != "" {
		rel = reg.DockWidget(o.RelativeToName)
	}
	mw.AddDockWidget(dw, toolkit.Location(o.Location), rel)
}

// CloseDockWidgetOp hides a widget and detaches it from its host.
type CloseDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
}

func (o *CloseDockWidgetOp) Kind() OpKind { return OpCloseDockWidget }
func (o *CloseDockWidgetOp) HasParams() bool { return true }
func (o *CloseDockWidgetOp) Description() string { return "closeDockWidget " + o.DockWidgetName }

func (o *CloseDockWidgetOp) Execute(reg *toolkit.Registry) {
	if dw := lookupWidget(reg, o, o.DockWidgetName); dw != nil {
		dw.Close()
	}
}

// ShowDockWidgetOp makes a widget visible; an unhosted one floats.
type ShowDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
}

func (o *ShowDockWidgetOp) Kind() OpKind { return OpShowDockWidget }
func (o *ShowDockWidgetOp) HasParams() bool { return true }
func (o *ShowDockWidgetOp) Description() string { return "showDockWidget " + o.DockWidgetName }

func (o *ShowDockWidgetOp) Execute(reg *toolkit.Registry) {
	if dw := lookupWidget(reg, o, o.DockWidgetName); dw != nil {
		dw.Show()
	}
}

// HideDockWidgetOp makes a widget invisible without detaching it.
type HideDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
}

func (o *HideDockWidgetOp) Kind() OpKind { return OpHideDockWidget }
func (o *HideDockWidgetOp) HasParams() bool { return true }
func (o *HideDockWidgetOp) Description() string { return "hideDockWidget " + o.DockWidgetName }

func (o *HideDockWidgetOp) Execute(reg *toolkit.Registry) {
	if dw := lookupWidget(reg, o, o.DockWidgetName); dw != nil {
		dw.Hide()
	}
}

// FloatDockWidgetOp detaches a widget into its own floating window.
type FloatDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
}

func (o *FloatDockWidgetOp) Kind() OpKind { return OpFloatDockWidget }
func (o *FloatDockWidgetOp) HasParams() bool { return true }
func (o *FloatDockWidgetOp) Description() string { return "floatDockWidget " + o.DockWidgetName }

func (o *FloatDockWidgetOp) Execute(reg *toolkit.Registry) {
	if dw := lookupWidget(reg, o, o.DockWidgetName); dw != nil {
		dw.Float()
	}
}

// DockDockWidgetOp re-docks a widget into a main window.
type DockDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
	MainWindowName string `json:"mainWindowName,omitempty"`
	Location       int    `json:"location,omitempty"`
}

func (o *DockDockWidgetOp) Kind() OpKind { return OpDockDockWidget }
func (o *DockDockWidgetOp) HasParams() bool { return true }

func (o *DockDockWidgetOp) Description() string {
	return fmt.Sprintf("dockDockWidget %s into %s at %s", o.DockWidgetName, o.MainWindowName, toolkit.Location(o.Location))
}

func (o *DockDockWidgetOp) Execute(reg *toolkit.Registry) {
	if o.DockWidgetName == "" || o.MainWindowName == "" {
		logDegenerate(o)
		return
	}
	dw := reg.DockWidget(o.DockWidgetName)
	mw := reg.MainWindow(o.MainWindowName)
	if dw == nil || mw == nil {
		logMissingTarget(o)
		return
	}
	mw.AddDockWidget(dw, toolkit.Location(o.Location), nil)
}

// ResizeDockWidgetOp resizes a widget; the toolkit clamps to min size.
type ResizeDockWidgetOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

func (o *ResizeDockWidgetOp) Kind() OpKind { return OpResizeDockWidget }
func (o *ResizeDockWidgetOp) HasParams() bool { return true }

func (o *ResizeDockWidgetOp) Description() string {
	return fmt.Sprintf("resizeDockWidget %s to %dx%d", o.DockWidgetName, o.Width, o.Height)
}

func (o *ResizeDockWidgetOp) Execute(reg *toolkit.Registry) {
	dw := lookupWidget(reg, o, o.DockWidgetName)
	if dw == nil {
		return
	}
	g := dw.Geometry()
	g.Width = o.Width
	g.Height = o.Height
	dw.SetGeometry(g)
}

// MoveFloatingWindowOp moves the floating window hosting a widget. The
// widget may have been re-docked since resolution, making this a no-op.
type MoveFloatingWindowOp struct {
	DockWidgetName string `json:"dockWidgetName,omitempty"`
	X              int    `json:"x,omitempty"`
	Y              int    `json:"y,omitempty"`
}

func (o *MoveFloatingWindowOp) Kind() OpKind { return OpMoveFloatingWindow }
func (o *MoveFloatingWindowOp) HasParams() bool { return true }

func (o *MoveFloatingWindowOp) Description() string {
	return fmt.Sprintf("moveFloatingWindow of %s to (%d,%d)", o.DockWidgetName, o.X, o.Y)
}

func (o *MoveFloatingWindowOp) Execute(reg *toolkit.Registry) {
	dw := lookupWidget(reg, o, o.DockWidgetName)
	if dw == nil {
		return
	}
	if fw, ok := dw.Window().(*toolkit.FloatingWindow); ok {
		fw.MoveTo(o.X, o.Y)
	}
}

// CloseMainWindowOp destroys a main window. Its docked widgets survive
// unhosted; a test can run on with no main window at all.
type CloseMainWindowOp struct {
	MainWindowName string `json:"mainWindowName,omitempty"`
}

func (o *CloseMainWindowOp) Kind() OpKind { return OpCloseMainWindow }
func (o *CloseMainWindowOp) HasParams() bool { return true }
func (o *CloseMainWindowOp) Description() string { return "closeMainWindow " + o.MainWindowName }

func (o *CloseMainWindowOp) Execute(reg *toolkit.Registry) {
	if o.MainWindowName == "" {
		logDegenerate(o)
		return
	}
	if mw := reg.MainWindow(o.MainWindowName); mw != nil {
		mw.Destroy()
	} else {
		logMissingTarget(o)
	}
}

// SaveLayoutOp snapshots the current arrangement into the registry.
type SaveLayoutOp struct{}

func (o *SaveLayoutOp) Kind() OpKind { return OpSaveLayout }
func (o *SaveLayoutOp) HasParams() bool { return false }
func (o *SaveLayoutOp) Description() string { return "saveLayout" }
func (o *SaveLayoutOp) Execute(reg *toolkit.Registry) { reg.SaveLayout() }

// RestoreLayoutOp re-applies the last saved arrangement, if any.
type RestoreLayoutOp struct{}

func (o *RestoreLayoutOp) Kind() OpKind { return OpRestoreLayout }
func (o *RestoreLayoutOp) HasParams() bool { return false }
func (o *RestoreLayoutOp) Description() string { return "restoreLayout" }

func (o *RestoreLayoutOp) Execute(reg *toolkit.Registry) {
	if !reg.RestoreLayout() {
		slog.Debug("restoreLayout: no saved layout")
	}
}

// DumpStateOp logs a summary of the live registry.
type DumpStateOp struct{}

func (o *DumpStateOp) Kind() OpKind { return OpDumpState }
func (o *DumpStateOp) HasParams() bool { return false }
func (o *DumpStateOp) Description() string { return "dumpState" }

func (o *DumpStateOp) Execute(reg *toolkit.Registry) {
	slog.Info("registry state", "summary", reg.Summary())
}

func lookupWidget(reg *toolkit.Registry, op Operation, name string) *toolkit.DockWidget {
	if name == "" {
		logDegenerate(op)
		return nil
	}
	dw := reg.DockWidget(name)
	if dw == nil {
		logMissingTarget(op)
	}
	return dw
}

func logDegenerate(op Operation) {
	slog.Debug("skipping operation with empty params", "kind", op.Kind().Tag())
}

func logMissingTarget(op Operation) {
	slog.Warn("operation target no longer exists", "op", op.Description())
}
