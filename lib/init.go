package spanlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const (
	// DefaultConfigPath is used when -c is not given.
	DefaultConfigPath = "config.json"

	// MonitorCountMax caps the config's monitor array and, by default, how
	// many displays a cycle composes for.
	MonitorCountMax = 8

	defaultOutputFormat = "bmp"
	defaultWorkdir      = "."
	defaultLogLevel     = "info"
	outputBasename      = "wallpaper_generated"
)

// WallpaperConfig is one monitor's wallpaper assignment.
type WallpaperConfig struct {
	AutoRotate bool      `json:"auto_rotate"`
	Style      Style     `json:"style"`
	BgColor    string    `json:"bg_color"`
	Source     SourceSet `json:"source"`
}

// MonitorConfig is one slot of the monitor array; slots map to displays in
// enumeration order.
type MonitorConfig struct {
	Wallpaper WallpaperConfig `json:"wallpaper"`
}

type Settings struct {
	OutputFormat string `json:"output_format"`
	Workdir      string `json:"workdir"`
	MaxMonitors  int    `json:"max_monitors"`
	LogFile      string `json:"log_file"`
	LogLevel     string `json:"log_level"`
}

type Config struct {
	Monitor  []MonitorConfig `json:"monitor"`
	Settings Settings        `json:"settings"`
}

// defaultConfig is what a first run writes: every monitor slot present so
// users only fill in source paths.
func defaultConfig() *Config {
	return &Config{
		Monitor: make([]MonitorConfig, MonitorCountMax),
		Settings: Settings{
			OutputFormat: defaultOutputFormat,
			Workdir:      defaultWorkdir,
			MaxMonitors:  MonitorCountMax,
			LogLevel:     defaultLogLevel,
		},
	}
}

// Init loads the config at path, writing a default file there first when
// none exists. Parse and validation failures are fatal to startup.
func Init(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c := defaultConfig()
		if err := c.write(path); err != nil {
			return nil, err
		}
		log.Infof("Created default config [%s]", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config [%s]: %w", path, err)
	}

	c := &Config{}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parsing config [%s]: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) write(path string) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, 0644)
}

func (c *Config) validate() error {
	if len(c.Monitor) > MonitorCountMax {
		return fmt.Errorf(
			"Config has %d monitor entries, the limit is %d",
			len(c.Monitor), MonitorCountMax)
	}

	s := &c.Settings
	if s.OutputFormat == "" {
		s.OutputFormat = defaultOutputFormat
	}
	if len(s.OutputFormat) < 3 || len(s.OutputFormat) > 4 {
		return fmt.Errorf(
			"output_format [%s] is not a 3-4 character extension", s.OutputFormat)
	}
	if !SupportedOutputFormat(s.OutputFormat) {
		return fmt.Errorf("No encoder for output_format [%s]", s.OutputFormat)
	}

	if s.Workdir == "" {
		s.Workdir = defaultWorkdir
	}
	fi, err := os.Stat(s.Workdir)
	if err != nil {
		return fmt.Errorf("Error calling os.Stat on workdir [%s]: %s", s.Workdir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("workdir [%s] is not a directory", s.Workdir)
	}

	if s.MaxMonitors == 0 {
		s.MaxMonitors = MonitorCountMax
	}
	if s.MaxMonitors < 1 {
		return fmt.Errorf("max_monitors must be greater than 0")
	}

	if s.LogLevel == "" {
		s.LogLevel = defaultLogLevel
	}
	return nil
}

// OutputPath is where every cycle writes the composed wallpaper.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Settings.Workdir, outputBasename+"."+c.Settings.OutputFormat)
}
