//go:build darwin

package spanlib

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kbinani/screenshot"
)

// macSession enumerates through CoreGraphics and detects layout changes by
// polling, since there is no notification hook short of a cgo event tap.
type macSession struct{}

func NewSession() (Session, error) {
	return &macSession{}, nil
}

func (s *macSession) Close() error {
	return nil
}

func (s *macSession) ListDisplays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		displays = append(displays, Display{
			DeviceID:    fmt.Sprintf("display-%d", i),
			Active:      true,
			X:           b.Min.X,
			Y:           b.Min.Y,
			Width:       b.Dx(),
			Height:      b.Dy(),
			Orientation: Orient0,
		})
	}
	return displays, nil
}

const displayPollInterval = 2 * time.Second

func (s *macSession) WatchDisplayChanges(ctx context.Context) (<-chan struct{}, error) {
	last, err := s.ListDisplays()
	if err != nil {
		return nil, err
	}

	events := make(chan struct{})

	go func() {
		defer close(events)

		ticker := time.NewTicker(displayPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			displays, err := s.ListDisplays()
			if err != nil {
				log.Debugf("Polling displays: %v", err)
				continue
			}
			if displaysEqual(last, displays) {
				continue
			}
			last = displays

			select {
			case events <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func displaysEqual(a, b []Display) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *macSession) CurrentWallpaper() (string, error) {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get picture of first desktop`).Output()
	if err != nil {
		return "", nil
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (s *macSession) SetWallpaper(path string) error {
	script := fmt.Sprintf(
		`tell application "System Events" to set picture of every desktop to POSIX file %q`, path)
	out, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
