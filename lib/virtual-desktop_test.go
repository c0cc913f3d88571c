package spanlib

import (
	"image"
	"testing"
)

func rect(x, y, w, h int) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

func activeMonitor(x, y, w, h int) *Monitor {
	return &Monitor{
		Active: true,
		Info:   MonitorInfo{X: x, Y: y, Width: w, Height: h},
	}
}

func TestFoldSeedsFromEmpty(t *testing.T) {
	var desk Rectangle
	desk.Fold(rect(-1920, 0, 1920, 1080))
	if desk != rect(-1920, 0, 1920, 1080) {
		t.Fatalf("first fold should seed the desk, got %+v", desk)
	}
}

func TestFoldAdjacentLayouts(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b Rectangle
		want Rectangle
	}{
		{"side by side", rect(0, 0, 1920, 1080), rect(1920, 0, 1920, 1080), rect(0, 0, 3840, 1080)},
		{"stacked", rect(0, 0, 1920, 1080), rect(0, 1080, 1920, 1080), rect(0, 0, 1920, 2160)},
		{"left of primary", rect(0, 0, 1920, 1080), rect(-1920, 0, 1920, 1080), rect(-1920, 0, 3840, 1080)},
		{"above primary", rect(0, 0, 1920, 1080), rect(0, -1080, 1920, 1080), rect(0, -1080, 1920, 2160)},
		{"overlapping", rect(0, 0, 1920, 1080), rect(960, 0, 1920, 1080), rect(0, 0, 2880, 1080)},
		{"contained", rect(0, 0, 3840, 2160), rect(960, 540, 1920, 1080), rect(0, 0, 3840, 2160)},
		{"landscape plus portrait", rect(0, 0, 1920, 1080), rect(1920, 0, 1080, 1920), rect(0, 0, 3000, 1920)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var desk Rectangle
			desk.Fold(tc.a)
			desk.Fold(tc.b)
			if desk != tc.want {
				t.Errorf("fold(%+v, %+v) = %+v, want %+v", tc.a, tc.b, desk, tc.want)
			}

			var swapped Rectangle
			swapped.Fold(tc.b)
			swapped.Fold(tc.a)
			if swapped != tc.want {
				t.Errorf("fold(%+v, %+v) = %+v, want %+v (order dependence)",
					tc.b, tc.a, swapped, tc.want)
			}
		})
	}
}

// Rectangles separated by a gap on an axis trip neither cover branch, so the
// folded extent is the sum of both extents and the gap is counted as covered.
// The oversized canvas just grows background dead space; monitors past the
// edge are clipped when composited.
func TestFoldGappedRectanglesSumExtents(t *testing.T) {
	var desk Rectangle
	desk.Fold(rect(0, 0, 100, 100))
	desk.Fold(rect(300, 0, 100, 100))

	want := rect(0, 0, 200, 100)
	if desk != want {
		t.Fatalf("gapped fold = %+v, want the sum-extent box %+v", desk, want)
	}
}

func TestRepositionMonitors(t *testing.T) {
	monitors := []*Monitor{
		activeMonitor(-1920, -500, 1920, 1080),
		{Active: false},
		activeMonitor(0, 0, 1920, 1080),
	}
	desk := reduceGeometry(monitors)

	if err := repositionMonitors(&desk, monitors); err != nil {
		t.Fatalf("reposition: %v", err)
	}
	if desk.X != 0 || desk.Y != 0 {
		t.Errorf("desk origin not zeroed: %+v", desk)
	}
	if want := image.Pt(0, 0); monitors[0].VirtPos != want {
		t.Errorf("monitor 0 VirtPos = %v, want %v", monitors[0].VirtPos, want)
	}
	if want := image.Pt(1920, 500); monitors[2].VirtPos != want {
		t.Errorf("monitor 2 VirtPos = %v, want %v", monitors[2].VirtPos, want)
	}

	for i, m := range monitors {
		if !m.Active {
			continue
		}
		if m.VirtPos.X < 0 || m.VirtPos.X >= desk.Width ||
			m.VirtPos.Y < 0 || m.VirtPos.Y >= desk.Height {
			t.Errorf("monitor %d VirtPos %v outside [0,%d)x[0,%d)",
				i, m.VirtPos, desk.Width, desk.Height)
		}
	}
}

func TestRepositionFailsWithoutActiveMonitors(t *testing.T) {
	monitors := []*Monitor{{Active: false}, {Active: false}}
	desk := reduceGeometry(monitors)

	if err := repositionMonitors(&desk, monitors); err != ErrNoActiveMonitors {
		t.Fatalf("expected ErrNoActiveMonitors, got %v", err)
	}
}

func TestReduceGeometryLandscapePlusPortrait(t *testing.T) {
	monitors := []*Monitor{
		activeMonitor(0, 0, 1920, 1080),
		activeMonitor(1920, 0, 1080, 1920),
	}
	desk := reduceGeometry(monitors)

	if want := rect(0, 0, 3000, 1920); desk != want {
		t.Fatalf("desk = %+v, want %+v", desk, want)
	}
	if err := repositionMonitors(&desk, monitors); err != nil {
		t.Fatalf("reposition: %v", err)
	}
	if want := image.Pt(1920, 0); monitors[1].VirtPos != want {
		t.Fatalf("portrait monitor VirtPos = %v, want %v", monitors[1].VirtPos, want)
	}
}
