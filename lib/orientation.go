package spanlib

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoWallpaper means the config assigns no usable source to the
	// monitor's orientation.
	ErrNoWallpaper = errors.New("no wallpaper assigned")
	// ErrUnknownOrientation means the display reported a rotation the
	// pipeline cannot pick a source for.
	ErrUnknownOrientation = errors.New("unknown monitor orientation")
)

// Orientation is a monitor's rotation as display drivers report it,
// ordinal times 90 degrees clockwise.
type Orientation int

const (
	Orient0 Orientation = iota
	Orient90
	Orient180
	Orient270
	orientCount
	OrientUnknown
)

var orientNames = [...]string{
	"landscape", "portrait", "landscape (flipped)", "portrait (flipped)",
}

func (o Orientation) Known() bool {
	return o >= Orient0 && o < orientCount
}

// Degrees is the clockwise rotation of the monitor from its natural
// landscape position.
func (o Orientation) Degrees() int {
	return int(o) * 90
}

func (o Orientation) String() string {
	if !o.Known() {
		return "unknown"
	}
	return orientNames[o]
}

// Style selects how a source image is fitted to its monitor.
type Style int

const (
	StyleFitNoCut Style = iota // scale to fit entirely, background fills the rest
	StyleFitEdgeCut            // scale to cover, center-crop the overflow
	StyleStretch               // scale to the exact monitor size
	StyleTile                  // repeat from the top-left corner
	StyleCenter                // 1:1 pixels, centered
)

var styleNames = [...]string{"fit_no_cut", "fit_edge_cut", "stretch", "tile", "center"}

func ParseStyle(s string) (Style, error) {
	for i, name := range styleNames {
		if s == name {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("unknown wallpaper style [%s]", s)
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return styleNames[s]
}

func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Style) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseStyle(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SourceSet holds one wallpaper path per monitor orientation.
type SourceSet struct {
	Landscape0   string `json:"landscape_0"`
	Landscape180 string `json:"landscape_180"`
	Portrait90   string `json:"portrait_90"`
	Portrait270  string `json:"portrait_270"`
}

// Path returns the source assigned to orientation o, or "" when unassigned.
func (s *SourceSet) Path(o Orientation) string {
	switch o {
	case Orient0:
		return s.Landscape0
	case Orient90:
		return s.Portrait90
	case Orient180:
		return s.Landscape180
	case Orient270:
		return s.Portrait270
	}
	return ""
}

// ResolveWallpaper picks the source file for a monitor's orientation and
// the clockwise rotation in degrees that corrects it. A directly assigned
// source needs no rotation. With auto_rotate a source for the flipped
// orientation is preferred; failing that the first assigned slot wins,
// scanned in orientation order.
func ResolveWallpaper(w *WallpaperConfig, orient Orientation) (string, int, error) {
	if !orient.Known() {
		return "", 0, ErrUnknownOrientation
	}
	if path := w.Source.Path(orient); path != "" {
		return path, 0, nil
	}
	if !w.AutoRotate {
		return "", 0, ErrNoWallpaper
	}

	alter, ok := alternateOrientation(&w.Source, orient)
	if !ok {
		return "", 0, ErrNoWallpaper
	}
	rotation := (360 - (alter.Degrees() - orient.Degrees())) % 360
	return w.Source.Path(alter), rotation, nil
}

func alternateOrientation(src *SourceSet, orient Orientation) (Orientation, bool) {
	flip := Orientation(((orient.Degrees() + 180) % 360) / 90)
	if src.Path(flip) != "" {
		return flip, true
	}
	for o := Orient0; o < orientCount; o++ {
		if src.Path(o) != "" {
			return o, true
		}
	}
	return OrientUnknown, false
}
