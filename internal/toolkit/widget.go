package toolkit

// MainWindowOption is the construction mode of a main window.
type MainWindowOption string

// MainWindowOptionNone is the only option exercised today.
const MainWindowOptionNone MainWindowOption = "none"

// Window is a top-level window: a MainWindow or a FloatingWindow.
type Window interface {
	WindowName() string
}

// MainWindow is a top-level container that hosts docked widgets.
type MainWindow struct {
	name     string
	option   MainWindowOption
	geometry Rect
	visible  bool
	docked   []*DockWidget
	reg      *Registry
}

func (m *MainWindow) Name() string { return m.name }

func (m *MainWindow) WindowName() string { return m.name }

func (m *MainWindow) Option() MainWindowOption { return m.option }

func (m *MainWindow) Geometry() Rect { return m.geometry }

func (m *MainWindow) IsVisible() bool { return m.visible }

func (m *MainWindow) SetGeometry(r Rect) { m.geometry = r }

func (m *MainWindow) Show() { m.visible = true }

// DockedWidgets returns the widgets currently docked into this window,
// in dock-area order.
func (m *MainWindow) DockedWidgets() []*DockWidget {
	out := make([]*DockWidget, len(m.docked))
	copy(out, m.docked)
	return out
}

// AddDockWidget docks a widget into this window at the given location.
// When relativeTo is docked here, the widget is placed beside it; otherwise
// left/top locations prepend to the dock area and right/bottom append.
// Docking shows the widget.
func (m *MainWindow) AddDockWidget(dw *DockWidget, loc Location, relativeTo *DockWidget) {
	dw.detach()
	dw.mainWindow = m
	dw.visible = true

	if relativeTo != nil && relativeTo.mainWindow == m {
		for i, d := range m.docked {
			if d == relativeTo {
				m.docked = append(m.docked[:i+1], append([]*DockWidget{dw}, m.docked[i+1:]...)...)
				return
			}
		}
	}

	switch loc {
	case LocationLeft, LocationTop:
		m.docked = append([]*DockWidget{dw}, m.docked...)
	default:
		m.docked = append(m.docked, dw)
	}
}

// Close hides the window and unhosts its docked widgets. The widgets stay
// registered but become hidden and unhosted; degenerate states like a run
// with no main window left are part of what the fuzzer exercises.
func (m *MainWindow) Close() {
	for _, dw := range m.docked {
		dw.mainWindow = nil
		dw.visible = false
	}
	m.docked = nil
	m.visible = false
}

// Destroy closes the window and removes it from the registry.
func (m *MainWindow) Destroy() {
	m.Close()
	m.reg.removeMainWindow(m)
}

// DockWidget is a movable panel that can be docked into a main window or
// floated in its own top-level window.
type DockWidget struct {
	name        string
	minSize     Size
	geometry    Rect
	visible     bool
	mainWindow  *MainWindow
	floatingWin *FloatingWindow
	reg         *Registry
}

func (d *DockWidget) Name() string { return d.name }

func (d *DockWidget) MinSize() Size { return d.minSize }

func (d *DockWidget) Geometry() Rect { return d.geometry }

func (d *DockWidget) IsVisible() bool { return d.visible }

func (d *DockWidget) IsFloating() bool { return d.floatingWin != nil }

// SetContentMinSize attaches a placeholder content widget with the given
// minimum size. The widget never shrinks below it.
func (d *DockWidget) SetContentMinSize(sz Size) {
	d.minSize = sz
	d.geometry = clampRect(d.geometry, sz)
	if d.floatingWin != nil {
		d.floatingWin.geometry = d.geometry
	}
}

// SetGeometry applies a geometry, clamped to the minimum size. A floating
// widget drags its floating window along.
func (d *DockWidget) SetGeometry(r Rect) {
	d.geometry = clampRect(r, d.minSize)
	if d.floatingWin != nil {
		d.floatingWin.geometry = d.geometry
	}
}

// Window returns the top-level window hosting this widget, or nil when the
// widget is unhosted.
func (d *DockWidget) Window() Window {
	if d.mainWindow != nil {
		return d.mainWindow
	}
	if d.floatingWin != nil {
		return d.floatingWin
	}
	return nil
}

// Show makes the widget visible. An unhosted widget becomes a floating
// window of its own, like a bare dock widget shown without a parent.
func (d *DockWidget) Show() {
	d.visible = true
	if d.mainWindow == nil && d.floatingWin == nil {
		d.reg.floatWidget(d)
	}
}

// Hide makes the widget invisible without detaching it from its host.
func (d *DockWidget) Hide() {
	d.visible = false
}

// Close hides the widget and detaches it from its host.
func (d *DockWidget) Close() {
	d.visible = false
	d.detach()
}

// Float detaches the widget from a main window into its own floating
// window. Floating an already-floating widget is a no-op.
func (d *DockWidget) Float() {
	if d.floatingWin != nil {
		return
	}
	d.detach()
	d.reg.floatWidget(d)
}

// Destroy detaches the widget and removes it from the registry.
func (d *DockWidget) Destroy() {
	d.detach()
	d.reg.removeDockWidget(d)
}

// detach removes the widget from whichever host holds it. An emptied
// floating window is destroyed.
func (d *DockWidget) detach() {
	if mw := d.mainWindow; mw != nil {
		d.mainWindow = nil
		mw.docked = removeWidget(mw.docked, d)
	}
	if fw := d.floatingWin; fw != nil {
		d.floatingWin = nil
		fw.widgets = removeWidget(fw.widgets, d)
		if len(fw.widgets) == 0 {
			d.reg.removeFloatingWindow(fw)
		}
	}
}

// FloatingWindow is a secondary top-level window hosting dock widgets
// outside any main window.
type FloatingWindow struct {
	name     string
	geometry Rect
	widgets  []*DockWidget
	reg      *Registry
}

func (f *FloatingWindow) Name() string { return f.name }

func (f *FloatingWindow) WindowName() string { return f.name }

func (f *FloatingWindow) Geometry() Rect { return f.geometry }

// Widgets returns the dock widgets hosted by this window.
func (f *FloatingWindow) Widgets() []*DockWidget {
	out := make([]*DockWidget, len(f.widgets))
	copy(out, f.widgets)
	return out
}

// MoveTo moves the window and its hosted widgets to a new position.
func (f *FloatingWindow) MoveTo(x, y int) {
	f.geometry.X = x
	f.geometry.Y = y
	for _, dw := range f.widgets {
		dw.geometry.X = x
		dw.geometry.Y = y
	}
}

// Destroy unhosts the window's widgets and removes it from the registry.
func (f *FloatingWindow) Destroy() {
	for _, dw := range f.widgets {
		dw.floatingWin = nil
		dw.visible = false
	}
	f.widgets = nil
	f.reg.removeFloatingWindow(f)
}

func removeWidget(list []*DockWidget, dw *DockWidget) []*DockWidget {
	for i, d := range list {
		if d == dw {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func clampRect(r Rect, min Size) Rect {
	if r.Width < min.Width {
		r.Width = min.Width
	}
	if r.Height < min.Height {
		r.Height = min.Height
	}
	return r
}
