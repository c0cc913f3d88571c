package spanlib

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Compositor turns the current display topology plus the wallpaper config
// into a single spanning image on disk and points the desktop at it.
type Compositor struct {
	conf     *Config
	displays DisplayEnumerator
	desktop  Desktop

	monitors []*Monitor
	desk     Rectangle
	outPath  string
}

func NewCompositor(conf *Config, displays DisplayEnumerator, desktop Desktop) *Compositor {
	return &Compositor{
		conf:     conf,
		displays: displays,
		desktop:  desktop,
		outPath:  conf.OutputPath(),
	}
}

// Update runs one full compose cycle: enumerate, reduce the virtual
// desktop, load and fit every monitor's wallpaper, composite, write, set.
// A monitor that cannot produce a frame is skipped; any other failure
// aborts the cycle and leaves the previous wallpaper in place.
func (c *Compositor) Update() error {
	displays, err := c.displays.ListDisplays()
	if err != nil {
		return fmt.Errorf("enumerating displays: %w", err)
	}
	logDisplays(displays)

	c.monitors = buildMonitors(displays, c.conf)
	c.desk = reduceGeometry(c.monitors)
	if err := repositionMonitors(&c.desk, c.monitors); err != nil {
		return err
	}

	active := 0
	for _, m := range c.monitors {
		if m.Active {
			active++
		}
	}
	log.Infof("Virtual desktop is %dx%d across %d active monitors",
		c.desk.Width, c.desk.Height, active)

	frames := make([]*Frame, len(c.monitors))
	for i, m := range c.monitors {
		if !m.Active {
			continue
		}
		f, err := prepareWallpaper(m)
		if err != nil {
			log.Warnf("Skipping monitor %d [%s]: %v", i, m.Device, err)
			continue
		}
		frames[i] = f
	}

	canvas, err := NewCanvas(c.desk.Width, c.desk.Height, defaultBG)
	if err != nil {
		return fmt.Errorf("building canvas: %w", err)
	}
	for i, m := range c.monitors {
		if frames[i] == nil {
			continue
		}
		canvas.Composite(frames[i], m.VirtPos.X, m.VirtPos.Y)
		log.Debugf("Monitor %d [%s] composited at (%d,%d)",
			i, m.Device, m.VirtPos.X, m.VirtPos.Y)
	}

	if err := canvas.Write(c.outPath); err != nil {
		return err
	}

	abs, err := filepath.Abs(c.outPath)
	if err != nil {
		return fmt.Errorf("resolving [%s]: %w", c.outPath, err)
	}
	if err := c.desktop.SetWallpaper(abs); err != nil {
		return fmt.Errorf("setting desktop wallpaper: %w", err)
	}
	log.Infof("Applied wallpaper [%s]", abs)
	return nil
}
