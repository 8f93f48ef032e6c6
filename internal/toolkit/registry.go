package toolkit

import "fmt"

// Registry owns every live widget. It is constructed explicitly and passed
// to whoever needs the world state; there is no process-wide instance.
// Descriptors are disposable birth certificates. Once a widget exists, the
// registry is the single source of truth for it.
type Registry struct {
	mainWindows []*MainWindow
	floating    []*FloatingWindow
	dockWidgets []*DockWidget
	saved       *layoutSnapshot
	floatingSeq int
}

// NewRegistry returns an empty widget registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// IsEmpty reports whether no widget of any kind is registered.
func (r *Registry) IsEmpty() bool {
	return len(r.mainWindows) == 0 && len(r.floating) == 0 && len(r.dockWidgets) == 0
}

// NewMainWindow creates and registers a main window. Names are unique
// within a registry.
func (r *Registry) NewMainWindow(name string, opt MainWindowOption) (*MainWindow, error) {
	if r.nameTaken(name) {
		return nil, fmt.Errorf("widget name %q already registered", name)
	}
	mw := &MainWindow{name: name, option: opt, reg: r}
	r.mainWindows = append(r.mainWindows, mw)
	return mw, nil
}

// NewDockWidget creates and registers a dock widget. It starts hidden and
// unhosted.
func (r *Registry) NewDockWidget(name string) (*DockWidget, error) {
	if r.nameTaken(name) {
		return nil, fmt.Errorf("widget name %q already registered", name)
	}
	dw := &DockWidget{name: name, reg: r}
	r.dockWidgets = append(r.dockWidgets, dw)
	return dw, nil
}

// MainWindows lists the live main windows in creation order.
func (r *Registry) MainWindows() []*MainWindow {
	out := make([]*MainWindow, len(r.mainWindows))
	copy(out, r.mainWindows)
	return out
}

// FloatingWindows lists the live floating windows in creation order.
func (r *Registry) FloatingWindows() []*FloatingWindow {
	out := make([]*FloatingWindow, len(r.floating))
	copy(out, r.floating)
	return out
}

// DockWidgets lists the live dock widgets in creation order.
func (r *Registry) DockWidgets() []*DockWidget {
	out := make([]*DockWidget, len(r.dockWidgets))
	copy(out, r.dockWidgets)
	return out
}

// MainWindow looks up a main window by name, nil when absent.
func (r *Registry) MainWindow(name string) *MainWindow {
	for _, mw := range r.mainWindows {
		if mw.name == name {
			return mw
		}
	}
	return nil
}

// DockWidget looks up a dock widget by name, nil when absent.
func (r *Registry) DockWidget(name string) *DockWidget {
	for _, dw := range r.dockWidgets {
		if dw.name == name {
			return dw
		}
	}
	return nil
}

// Summary returns a one-line description of the current world state.
func (r *Registry) Summary() string {
	return fmt.Sprintf("%d main windows, %d floating windows, %d dock widgets",
		len(r.mainWindows), len(r.floating), len(r.dockWidgets))
}

func (r *Registry) nameTaken(name string) bool {
	return r.MainWindow(name) != nil || r.DockWidget(name) != nil
}

// floatWidget hosts a widget in a fresh floating window at the widget's
// geometry, clamped to its minimum size.
func (r *Registry) floatWidget(dw *DockWidget) {
	r.floatingSeq++
	dw.geometry = clampRect(dw.geometry, dw.minSize)
	fw := &FloatingWindow{
		name:     fmt.Sprintf("FloatingWindow-%d", r.floatingSeq),
		geometry: dw.geometry,
		widgets:  []*DockWidget{dw},
		reg:      r,
	}
	dw.floatingWin = fw
	r.floating = append(r.floating, fw)
}

func (r *Registry) removeMainWindow(mw *MainWindow) {
	for i, m := range r.mainWindows {
		if m == mw {
			r.mainWindows = append(r.mainWindows[:i], r.mainWindows[i+1:]...)
			return
		}
	}
}

func (r *Registry) removeFloatingWindow(fw *FloatingWindow) {
	for i, f := range r.floating {
		if f == fw {
			r.floating = append(r.floating[:i], r.floating[i+1:]...)
			return
		}
	}
}

func (r *Registry) removeDockWidget(dw *DockWidget) {
	for i, d := range r.dockWidgets {
		if d == dw {
			r.dockWidgets = append(r.dockWidgets[:i], r.dockWidgets[i+1:]...)
			return
		}
	}
}
