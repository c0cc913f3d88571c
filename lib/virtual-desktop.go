package spanlib

import (
	"errors"
	"image"
)

// ErrNoActiveMonitors means geometry reduction saw no usable displays, so
// there is nothing to compose a wallpaper for.
var ErrNoActiveMonitors = errors.New("no active monitors")

// Rectangle is a region of the virtual desktop in OS screen coordinates.
// The y axis grows downward and the origin can be negative until the
// monitors are repositioned. Width==0 && Height==0 is the pre-fold sentinel.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r is the sentinel a fold accumulator starts from.
func (r Rectangle) Empty() bool {
	return r.Width == 0 && r.Height == 0
}

// span is a 1-D interval along one axis of the desktop.
type span struct {
	s, e int
}

// covers is an inclusive containment test that tolerates reversed spans.
func (sp span) covers(p int) bool {
	if sp.s <= sp.e {
		return sp.s <= p && p <= sp.e
	}
	return sp.e <= p && p <= sp.s
}

// Fold grows the desk rectangle to absorb r. Per axis the new extent is the
// sum of both extents minus the overlapping segment; the OS lays monitors
// out adjacent or overlapping, so that sum is the union extent.
func (desk *Rectangle) Fold(r Rectangle) {
	if desk.Empty() {
		*desk = r
		return
	}

	dw := span{desk.X, desk.X + desk.Width}
	aw := span{r.X, r.X + r.Width}
	delta := 0
	if aw.covers(dw.s) {
		if aw.covers(dw.e) {
			delta = desk.Width
		} else {
			delta = abs(aw.e - dw.s)
		}
	} else if dw.covers(aw.s) {
		if dw.covers(aw.e) {
			delta = r.Width
		} else {
			delta = abs(dw.e - aw.s)
		}
	}
	desk.Width = r.Width + desk.Width - delta

	dh := span{desk.Y, desk.Y + desk.Height}
	ah := span{r.Y, r.Y + r.Height}
	delta = 0
	if ah.covers(dh.s) {
		if ah.covers(dh.e) {
			delta = desk.Height
		} else {
			delta = abs(ah.e - dh.s)
		}
	} else if dh.covers(ah.s) {
		if dh.covers(ah.e) {
			delta = r.Height
		} else {
			delta = abs(dh.e - ah.s)
		}
	}
	desk.Height = r.Height + desk.Height - delta

	desk.X = min(desk.X, r.X)
	desk.Y = min(desk.Y, r.Y)
}

// reduceGeometry folds every active monitor into a fresh desk rectangle.
// Starting fresh each cycle keeps geometry from a previous topology from
// leaking into the current one.
func reduceGeometry(monitors []*Monitor) Rectangle {
	var desk Rectangle
	for _, m := range monitors {
		if !m.Active {
			continue
		}
		desk.Fold(Rectangle{m.Info.X, m.Info.Y, m.Info.Width, m.Info.Height})
	}
	return desk
}

// repositionMonitors translates every active monitor into desk-local
// coordinates and zeroes the desk origin afterwards.
func repositionMonitors(desk *Rectangle, monitors []*Monitor) error {
	if desk.Width == 0 || desk.Height == 0 {
		return ErrNoActiveMonitors
	}

	for _, m := range monitors {
		if !m.Active {
			continue
		}
		m.VirtPos = image.Pt(m.Info.X-desk.X, m.Info.Y-desk.Y)
	}
	desk.X, desk.Y = 0, 0
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
