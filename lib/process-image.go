package spanlib

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// The fit styles transform a source frame to exactly the monitor's
// dimensions. Scale factors are float64 and scaled dimensions truncate;
// centering offsets use integer halving.

func styleFitNoCut(f *Frame, monW, monH int) error {
	picW, picH := f.Width(), f.Height()
	picAspect := float64(picW) / float64(picH)
	monAspect := float64(monW) / float64(monH)

	if picAspect > monAspect {
		log.Debugf("style fit_no_cut: fit width %d", monW)
		scale := float64(picW) / float64(monW)
		scaledH := int(float64(picH) / scale)
		if err := f.Scale(monW, scaledH); err != nil {
			return err
		}
		if scaledH < monH {
			return f.Extend(monW, monH, 0, (monH-scaledH)/2)
		}
		return nil
	}

	log.Debugf("style fit_no_cut: fit height %d", monH)
	scale := float64(picH) / float64(monH)
	scaledW := int(float64(picW) / scale)
	if err := f.Scale(scaledW, monH); err != nil {
		return err
	}
	if scaledW < monW {
		return f.Extend(monW, monH, (monW-scaledW)/2, 0)
	}
	return nil
}

func styleFitEdgeCut(f *Frame, monW, monH int) error {
	picW, picH := f.Width(), f.Height()
	picAspect := float64(picW) / float64(picH)
	monAspect := float64(monW) / float64(monH)

	if picAspect > monAspect {
		log.Debugf("style fit_edge_cut: fit height %d, cut width", monH)
		scale := float64(picH) / float64(monH)
		scaledW := int(float64(picW) / scale)
		if err := f.Scale(scaledW, monH); err != nil {
			return err
		}
		return f.Crop(monW, monH, (scaledW-monW)/2, 0)
	}

	log.Debugf("style fit_edge_cut: fit width %d, cut height", monW)
	scale := float64(picW) / float64(monW)
	scaledH := int(float64(picH) / scale)
	if err := f.Scale(monW, scaledH); err != nil {
		return err
	}
	return f.Crop(monW, monH, 0, (scaledH-monH)/2)
}

func styleStretch(f *Frame, monW, monH int) error {
	return f.Scale(monW, monH)
}

func styleTile(f *Frame, monW, monH int) error {
	picW, picH := f.Width(), f.Height()
	if picW >= monW && picH >= monH {
		return f.Crop(monW, monH, 0, 0)
	}

	src := f.Clone()
	// Pushing the existing pixels past the canvas edge leaves a blank
	// background-filled canvas to tile onto.
	if err := f.Extend(monW, monH, monW, monH); err != nil {
		return err
	}

	x, y, filled := 0, 0, 0
	for filled < monH {
		f.Composite(src, x, y)
		x += picW
		if x >= monW {
			x = 0
			y += picH
			filled += picH
		}
	}
	return nil
}

func styleCenter(f *Frame, monW, monH int) error {
	picW, picH := f.Width(), f.Height()
	if monW == picW && monH == picW {
		return nil
	}
	if picW > monW && picH > monH {
		return f.Crop(monW, monH, picW/2-monW/2, picH/2-monH/2)
	}
	return f.Extend(monW, monH, monW/2-picW/2, monH/2-picH/2)
}

func applyStyle(style Style, f *Frame, monW, monH int) error {
	switch style {
	case StyleFitNoCut:
		return styleFitNoCut(f, monW, monH)
	case StyleFitEdgeCut:
		return styleFitEdgeCut(f, monW, monH)
	case StyleStretch:
		return styleStretch(f, monW, monH)
	case StyleTile:
		return styleTile(f, monW, monH)
	case StyleCenter:
		return styleCenter(f, monW, monH)
	}
	return fmt.Errorf("unknown wallpaper style %d", int(style))
}

// prepareWallpaper loads and transforms one monitor's wallpaper into a
// frame sized exactly for that monitor.
func prepareWallpaper(m *Monitor) (*Frame, error) {
	path, rotation, err := ResolveWallpaper(&m.Wallpaper, m.Info.Orientation)
	if err != nil {
		return nil, err
	}

	f, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	if m.Wallpaper.BgColor != "" {
		if err := f.SetBackground(m.Wallpaper.BgColor); err != nil {
			log.Warnf("Invalid bg_color [%s], keeping %s", m.Wallpaper.BgColor, DefaultBGColor)
		}
	}

	if rotation != 0 {
		log.Debugf("Rotating [%s] by %d degrees for a %s monitor", path, rotation, m.Info.Orientation)
		if err := f.Rotate(rotation); err != nil {
			return nil, err
		}
	}

	if err := applyStyle(m.Wallpaper.Style, f, m.Info.Width, m.Info.Height); err != nil {
		return nil, fmt.Errorf("applying style %s to [%s]: %w", m.Wallpaper.Style, path, err)
	}
	return f, nil
}
