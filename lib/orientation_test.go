package spanlib

import (
	"encoding/json"
	"testing"
)

func TestParseStyle(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Style
	}{
		{"fit_no_cut", StyleFitNoCut},
		{"fit_edge_cut", StyleFitEdgeCut},
		{"stretch", StyleStretch},
		{"tile", StyleTile},
		{"center", StyleCenter},
	} {
		got, err := ParseStyle(tc.name)
		if err != nil {
			t.Errorf("ParseStyle(%q): %v", tc.name, err)
		} else if got != tc.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := ParseStyle("zoom"); err == nil {
		t.Error("ParseStyle should reject unknown style names")
	}
}

func TestStyleJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(StyleTile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"tile"` {
		t.Fatalf("marshal = %s, want \"tile\"", raw)
	}

	var s Style
	if err := json.Unmarshal([]byte(`"fit_edge_cut"`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != StyleFitEdgeCut {
		t.Fatalf("unmarshal = %v, want fit_edge_cut", s)
	}

	if err := json.Unmarshal([]byte(`"sideways"`), &s); err == nil {
		t.Fatal("unmarshal should reject unknown style names")
	}
}

func TestResolveWallpaper(t *testing.T) {
	sources := func(l0, l180, p90, p270 string) SourceSet {
		return SourceSet{
			Landscape0: l0, Landscape180: l180,
			Portrait90: p90, Portrait270: p270,
		}
	}

	for _, tc := range []struct {
		name       string
		src        SourceSet
		autoRotate bool
		orient     Orientation
		wantPath   string
		wantRot    int
		wantErr    error
	}{
		{
			name:     "direct match needs no rotation",
			src:      sources("a.png", "", "b.png", ""),
			orient:   Orient90,
			wantPath: "b.png",
		},
		{
			name:     "direct match wins over auto rotate",
			src:      sources("a.png", "b.png", "", ""),
			autoRotate: true,
			orient:   Orient180,
			wantPath: "b.png",
		},
		{
			name:    "no auto rotate means no fallback",
			src:     sources("a.png", "", "", ""),
			orient:  Orient90,
			wantErr: ErrNoWallpaper,
		},
		{
			name:       "flipped orientation preferred",
			src:        sources("", "", "", "d.png"),
			autoRotate: true,
			orient:     Orient90,
			wantPath:   "d.png",
			wantRot:    180,
		},
		{
			name:       "flipped landscape preferred",
			src:        sources("", "b.png", "c.png", ""),
			autoRotate: true,
			orient:     Orient0,
			wantPath:   "b.png",
			wantRot:    180,
		},
		{
			name:       "scan order picks first assigned slot",
			src:        sources("a.png", "b.png", "", ""),
			autoRotate: true,
			orient:     Orient90,
			wantPath:   "a.png",
			wantRot:    90,
		},
		{
			name:       "portrait source for flipped portrait",
			src:        sources("", "", "c.png", ""),
			autoRotate: true,
			orient:     Orient270,
			wantPath:   "c.png",
			wantRot:    180,
		},
		{
			name:       "nothing assigned",
			src:        sources("", "", "", ""),
			autoRotate: true,
			orient:     Orient0,
			wantErr:    ErrNoWallpaper,
		},
		{
			name:    "unknown orientation",
			src:     sources("a.png", "", "", ""),
			orient:  OrientUnknown,
			wantErr: ErrUnknownOrientation,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := &WallpaperConfig{AutoRotate: tc.autoRotate, Source: tc.src}
			path, rot, err := ResolveWallpaper(w, tc.orient)
			if err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if path != tc.wantPath || rot != tc.wantRot {
				t.Fatalf("resolved (%q, %d), want (%q, %d)", path, rot, tc.wantPath, tc.wantRot)
			}
		})
	}
}
