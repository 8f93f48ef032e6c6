// Package toolkit implements the live widget world the fuzzer mutates:
// main windows, dock widgets, floating windows, the registry that owns
// them, and the sanity oracle that checks their invariants.
package toolkit

// Rect is a window rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size is a width/height pair, used for minimum widget sizes.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Location is a docking direction inside a main window.
type Location int

const (
	LocationNone Location = iota
	LocationLeft
	LocationTop
	LocationRight
	LocationBottom
)

func (l Location) String() string {
	switch l {
	case LocationLeft:
		return "left"
	case LocationTop:
		return "top"
	case LocationRight:
		return "right"
	case LocationBottom:
		return "bottom"
	default:
		return "none"
	}
}
