package fuzzer

import (
	"fmt"

	"github.com/skodde/dockfuzz/internal/toolkit"
)

// MainWindowDescriptor describes how to construct one main window. It is
// immutable once generated and consumed exactly once.
type MainWindowDescriptor struct {
	Name     string                   `json:"name"`
	Geometry toolkit.Rect             `json:"geometry"`
	Option   toolkit.MainWindowOption `json:"mainWindowOption"`
}

// DockWidgetDescriptor describes how to construct one dock widget. The
// geometry is only meaningful when the widget starts floating.
type DockWidgetDescriptor struct {
	Name       string       `json:"name"`
	MinSize    toolkit.Size `json:"minSize"`
	Geometry   toolkit.Rect `json:"geometry"`
	IsFloating bool         `json:"isFloating"`
	IsVisible  bool         `json:"isVisible"`
}

// Layout is the initial state of a test before any operation runs.
type Layout struct {
	MainWindows []MainWindowDescriptor `json:"mainWindows"`
	DockWidgets []DockWidgetDescriptor `json:"dockWidgets"`
}

// Test is the unit of replay and serialization: an initial layout plus an
// ordered operation sequence.
type Test struct {
	Layout     Layout
	Operations []Operation
}

// materializeLayout creates the live widgets a layout describes.
func materializeLayout(reg *toolkit.Registry, layout Layout) error {
	for _, mwd := range layout.MainWindows {
		mw, err := reg.NewMainWindow(mwd.Name, mwd.Option)
		if err != nil {
			return fmt.Errorf("materialize main window: %w", err)
		}
		mw.SetGeometry(mwd.Geometry)
		mw.Show()
	}

	for _, dwd := range layout.DockWidgets {
		dw, err := reg.NewDockWidget(dwd.Name)
		if err != nil {
			return fmt.Errorf("materialize dock widget: %w", err)
		}
		dw.SetContentMinSize(dwd.MinSize)
		if dwd.IsFloating {
			dw.SetGeometry(dwd.Geometry)
		}
		// Showing an unhosted widget floats it, so a visible floating
		// descriptor becomes a real floating window here.
		if dwd.IsVisible {
			dw.Show()
		}
	}

	return nil
}

// teardownAll destroys every live widget: main windows first, then floating
// windows, then whatever dock widgets remain.
func teardownAll(reg *toolkit.Registry) {
	for _, mw := range reg.MainWindows() {
		mw.Destroy()
	}
	for _, fw := range reg.FloatingWindows() {
		fw.Destroy()
	}
	for _, dw := range reg.DockWidgets() {
		dw.Destroy()
	}
}
