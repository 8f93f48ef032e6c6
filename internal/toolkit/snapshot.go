package toolkit

// layoutSnapshot captures how the registered widgets are arranged, so the
// arrangement can be re-applied later. It records placement by name; widgets
// created after the snapshot keep their current placement, widgets destroyed
// since are skipped.
type layoutSnapshot struct {
	mainWindows []mainWindowState
	dockWidgets []dockWidgetState
}

type mainWindowState struct {
	name     string
	geometry Rect
	visible  bool
}

type dockWidgetState struct {
	name           string
	geometry       Rect
	visible        bool
	floating       bool
	mainWindowName string
}

// SaveLayout snapshots the current arrangement into the registry's save
// slot, replacing any previous snapshot.
func (r *Registry) SaveLayout() {
	snap := &layoutSnapshot{}
	for _, mw := range r.mainWindows {
		snap.mainWindows = append(snap.mainWindows, mainWindowState{
			name:     mw.name,
			geometry: mw.geometry,
			visible:  mw.visible,
		})
	}
	for _, dw := range r.dockWidgets {
		st := dockWidgetState{
			name:     dw.name,
			geometry: dw.geometry,
			visible:  dw.visible,
			floating: dw.floatingWin != nil,
		}
		if dw.mainWindow != nil {
			st.mainWindowName = dw.mainWindow.name
		}
		snap.dockWidgets = append(snap.dockWidgets, st)
	}
	r.saved = snap
}

// RestoreLayout re-applies the saved arrangement. It reports false when no
// snapshot exists.
func (r *Registry) RestoreLayout() bool {
	snap := r.saved
	if snap == nil {
		return false
	}

	for _, st := range snap.mainWindows {
		mw := r.MainWindow(st.name)
		if mw == nil {
			continue
		}
		mw.geometry = st.geometry
		mw.visible = st.visible
	}

	for _, st := range snap.dockWidgets {
		dw := r.DockWidget(st.name)
		if dw == nil {
			continue
		}
		switch {
		case st.mainWindowName != "":
			if mw := r.MainWindow(st.mainWindowName); mw != nil {
				mw.AddDockWidget(dw, LocationRight, nil)
			} else {
				dw.detach()
			}
		case st.floating:
			dw.Float()
		default:
			dw.detach()
		}
		dw.SetGeometry(st.geometry)
		dw.visible = st.visible && dw.Window() != nil
	}

	return true
}
