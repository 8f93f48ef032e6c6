package toolkit

import (
	"fmt"
	"strings"
)

// CheckSanityAll verifies the invariants of the whole widget world. Any
// violation is fatal: the fuzzer's job is to stop at the first sign of
// corruption with enough state preserved to reproduce it.
func (r *Registry) CheckSanityAll() {
	findings := r.sanityFindings()
	if len(findings) > 0 {
		Fatalf("sanity check failed: %s", strings.Join(findings, "; "))
	}
}

func (r *Registry) sanityFindings() []string {
	var findings []string

	seen := map[string]bool{}
	checkName := func(name string) {
		if seen[name] {
			findings = append(findings, fmt.Sprintf("duplicate widget name %q", name))
		}
		seen[name] = true
	}
	for _, mw := range r.mainWindows {
		checkName(mw.name)
	}
	for _, fw := range r.floating {
		checkName(fw.name)
	}
	for _, dw := range r.dockWidgets {
		checkName(dw.name)
	}

	for _, dw := range r.dockWidgets {
		if dw.mainWindow != nil && dw.floatingWin != nil {
			findings = append(findings, fmt.Sprintf("dock widget %q has two hosts", dw.name))
		}
		if mw := dw.mainWindow; mw != nil && !containsWidget(mw.docked, dw) {
			findings = append(findings, fmt.Sprintf("dock widget %q not listed by its main window %q", dw.name, mw.name))
		}
		if fw := dw.floatingWin; fw != nil {
			if !containsWidget(fw.widgets, dw) {
				findings = append(findings, fmt.Sprintf("dock widget %q not listed by its floating window %q", dw.name, fw.name))
			}
			if dw.geometry.Width < dw.minSize.Width || dw.geometry.Height < dw.minSize.Height {
				findings = append(findings, fmt.Sprintf("floating dock widget %q is smaller than its minimum size", dw.name))
			}
		}
		if dw.visible && dw.mainWindow == nil && dw.floatingWin == nil {
			findings = append(findings, fmt.Sprintf("dock widget %q is visible but has no host window", dw.name))
		}
	}

	for _, fw := range r.floating {
		if len(fw.widgets) == 0 {
			findings = append(findings, fmt.Sprintf("floating window %q hosts no widgets", fw.name))
		}
		for _, dw := range fw.widgets {
			if dw.floatingWin != fw {
				findings = append(findings, fmt.Sprintf("floating window %q lists widget %q that points elsewhere", fw.name, dw.name))
			}
			if r.DockWidget(dw.name) == nil {
				findings = append(findings, fmt.Sprintf("floating window %q hosts unregistered widget %q", fw.name, dw.name))
			}
		}
	}

	for _, mw := range r.mainWindows {
		for _, dw := range mw.docked {
			if dw.mainWindow != mw {
				findings = append(findings, fmt.Sprintf("main window %q lists widget %q that points elsewhere", mw.name, dw.name))
			}
			if r.DockWidget(dw.name) == nil {
				findings = append(findings, fmt.Sprintf("main window %q hosts unregistered widget %q", mw.name, dw.name))
			}
		}
	}

	return findings
}

func containsWidget(list []*DockWidget, dw *DockWidget) bool {
	for _, d := range list {
		if d == dw {
			return true
		}
	}
	return false
}
