package spanlib

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitWritesDefaultConfigOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	conf, err := Init(path)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if len(conf.Monitor) != MonitorCountMax {
		t.Errorf("default config has %d monitor slots, want %d",
			len(conf.Monitor), MonitorCountMax)
	}
	if conf.Settings.OutputFormat != "bmp" || conf.Settings.Workdir != "." {
		t.Errorf("unexpected default settings %+v", conf.Settings)
	}

	// The written file loads back cleanly.
	if _, err := Init(path); err != nil {
		t.Fatalf("reloading the default config: %v", err)
	}
}

func TestInitAppliesDefaultsToSparseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"monitor": [
			{"wallpaper": {"style": "tile", "source": {"landscape_0": "a.png"}}}
		]
	}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := Init(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.Settings.OutputFormat != "bmp" {
		t.Errorf("output_format default not applied: %q", conf.Settings.OutputFormat)
	}
	if conf.Settings.MaxMonitors != MonitorCountMax {
		t.Errorf("max_monitors default not applied: %d", conf.Settings.MaxMonitors)
	}
	if conf.Monitor[0].Wallpaper.Style != StyleTile {
		t.Errorf("style = %v, want tile", conf.Monitor[0].Wallpaper.Style)
	}
	if conf.Monitor[0].Wallpaper.Source.Landscape0 != "a.png" {
		t.Errorf("source not parsed: %+v", conf.Monitor[0].Wallpaper.Source)
	}
	if conf.Monitor[0].Wallpaper.AutoRotate {
		t.Error("auto_rotate should default to false")
	}
}

func TestInitRejectsBadConfigs(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"settings": `},
		{"unknown style", `{"monitor": [{"wallpaper": {"style": "mosaic"}}]}`},
		{"too many monitors", `{"monitor": [{},{},{},{},{},{},{},{},{}]}`},
		{"bad output format", `{"settings": {"output_format": "x"}}`},
		{"unencodable output format", `{"settings": {"output_format": "svg"}}`},
		{"missing workdir", `{"settings": {"workdir": "/no/such/dir"}}`},
		{"negative max monitors", `{"settings": {"max_monitors": -2}}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".json")
			if err := os.WriteFile(path, []byte(tc.raw), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Init(path); err == nil {
				t.Fatal("expected a config error")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	conf := &Config{Settings: Settings{OutputFormat: "png", Workdir: "/tmp/wp"}}
	if got, want := conf.OutputPath(), filepath.Join("/tmp/wp", "wallpaper_generated.png"); got != want {
		t.Fatalf("OutputPath() = %q, want %q", got, want)
	}
}
