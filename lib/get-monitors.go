package spanlib

import (
	"context"
	"image"

	"github.com/charmbracelet/log"
)

// Display is one OS display record, in enumeration order. Inactive and
// mirroring displays keep their slot so later displays keep stable indexes.
type Display struct {
	DeviceID     string
	Active       bool
	Mirroring    bool
	X, Y         int
	Width        int
	Height       int
	RefreshHz    int
	BitsPerPixel int
	Orientation  Orientation
}

// DisplayEnumerator lists the displays the OS currently drives.
type DisplayEnumerator interface {
	ListDisplays() ([]Display, error)
}

// Desktop is the OS wallpaper surface the compositor publishes to.
type Desktop interface {
	CurrentWallpaper() (string, error)
	SetWallpaper(path string) error
	WatchDisplayChanges(ctx context.Context) (<-chan struct{}, error)
}

// Session bundles both collaborator roles over one OS connection.
type Session interface {
	DisplayEnumerator
	Desktop
	Close() error
}

// MonitorInfo is a monitor's geometry inside the virtual desktop.
type MonitorInfo struct {
	X, Y          int
	Width, Height int
	Orientation   Orientation
	Primary       bool
}

// Monitor pairs one enumerated display with its wallpaper config slot.
// VirtPos is only meaningful after the monitors are repositioned.
type Monitor struct {
	Active    bool
	Info      MonitorInfo
	VirtPos   image.Point
	Wallpaper WallpaperConfig
	Device    string
}

// buildMonitors merges enumerated displays with config entries by position.
// Displays beyond the configured maximum are dropped with a warning, and
// inactive or mirrored displays yield an inactive slot with zeroed geometry.
func buildMonitors(displays []Display, conf *Config) []*Monitor {
	monitors := make([]*Monitor, 0, len(displays))
	for i, d := range displays {
		if i >= conf.Settings.MaxMonitors {
			log.Warnf("Ignoring display %d [%s]: over the %d monitor limit",
				i, d.DeviceID, conf.Settings.MaxMonitors)
			continue
		}

		m := &Monitor{Device: d.DeviceID}
		if i < len(conf.Monitor) {
			m.Wallpaper = conf.Monitor[i].Wallpaper
		}
		if d.Active && !d.Mirroring {
			m.Active = true
			m.Info = MonitorInfo{
				X:           d.X,
				Y:           d.Y,
				Width:       d.Width,
				Height:      d.Height,
				Orientation: d.Orientation,
				Primary:     d.X == 0 && d.Y == 0,
			}
		}
		monitors = append(monitors, m)
	}
	return monitors
}

// logDisplays prints one line per enumerated display at debug level.
func logDisplays(displays []Display) {
	for i, d := range displays {
		state := "inactive"
		switch {
		case d.Mirroring:
			state = "mirroring"
		case d.Active && d.X == 0 && d.Y == 0:
			state = "active, primary"
		case d.Active:
			state = "active"
		}
		log.Debugf("display %d [%s]: %dx%d@%dHz %dbpp %s at (%d,%d), %s",
			i, d.DeviceID, d.Width, d.Height, d.RefreshHz, d.BitsPerPixel,
			d.Orientation, d.X, d.Y, state)
	}
}
