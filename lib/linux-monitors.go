//go:build !windows && !darwin

package spanlib

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/charmbracelet/log"
)

type environment int

const (
	gnome environment = iota
	i3
	unknown
)

// x11Session owns one X connection used for enumeration, change events and
// wallpaper setting.
type x11Session struct {
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	root xproto.Window
	env  environment
}

// NewSession connects to the X display named by $DISPLAY.
func NewSession() (Session, error) {
	// Stop xgb polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X display: %w", err)
	}
	conn := xu.Conn()

	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing randr: %w", err)
	}

	s := &x11Session{
		xu:   xu,
		conn: conn,
		root: xproto.Setup(conn).DefaultScreen(conn).Root,
		env:  unknown,
	}
	s.detectEnvironment()
	return s, nil
}

func (s *x11Session) detectEnvironment() {
	wm, err := ewmh.GetEwmhWM(s.xu)
	if err != nil {
		log.Debugf("No EWMH-compliant WM detected: %v", err)
		return
	}

	wm = strings.ToLower(wm)
	switch {
	case strings.Contains(wm, "gnome"):
		s.env = gnome
	case wm == "i3":
		s.env = i3
	default:
		// Feh probably works
		log.Debugf("Unknown WM/DE [%s]", wm)
	}
}

// ListDisplays walks the RandR CRTCs. Disabled CRTCs yield inactive slots
// so display indexes stay stable across disconnects.
func (s *x11Session) ListDisplays() ([]Display, error) {
	resources, err := randr.GetScreenResources(s.conn, s.root).Reply()
	if err != nil {
		return nil, err
	}
	depth := int(xproto.Setup(s.conn).DefaultScreen(s.conn).RootDepth)

	displays := make([]Display, 0, len(resources.Crtcs))
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(s.conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			return nil, err
		}

		d := Display{
			DeviceID:     fmt.Sprintf("crtc-%d", crtc),
			BitsPerPixel: depth,
			Orientation:  orientationFromRotation(info.Rotation),
		}
		if len(info.Outputs) > 0 && info.Width > 0 && info.Height > 0 {
			d.Active = true
			d.X = int(info.X)
			d.Y = int(info.Y)
			d.Width = int(info.Width)
			d.Height = int(info.Height)
			d.RefreshHz = refreshForMode(resources, info.Mode)
			out, err := randr.GetOutputInfo(
				s.conn, info.Outputs[0], resources.ConfigTimestamp).Reply()
			if err == nil {
				d.DeviceID = string(out.Name)
			}
		}
		displays = append(displays, d)
	}
	return displays, nil
}

func orientationFromRotation(r uint16) Orientation {
	switch r & 0xf {
	case randr.RotationRotate0:
		return Orient0
	case randr.RotationRotate90:
		return Orient90
	case randr.RotationRotate180:
		return Orient180
	case randr.RotationRotate270:
		return Orient270
	}
	return OrientUnknown
}

func refreshForMode(res *randr.GetScreenResourcesReply, mode randr.Mode) int {
	for _, mi := range res.Modes {
		if mi.Id != uint32(mode) {
			continue
		}
		if mi.Htotal == 0 || mi.Vtotal == 0 {
			return 0
		}
		return int(mi.DotClock) / (int(mi.Htotal) * int(mi.Vtotal))
	}
	return 0
}

// WatchDisplayChanges delivers one event per RandR screen change until ctx
// is done or the connection closes.
func (s *x11Session) WatchDisplayChanges(ctx context.Context) (<-chan struct{}, error) {
	err := randr.SelectInputChecked(
		s.conn, s.root, randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return nil, fmt.Errorf("subscribing to randr events: %w", err)
	}

	events := make(chan struct{})
	go func() {
		defer close(events)
		for {
			ev, xerr := s.conn.WaitForEvent()
			if ev == nil && xerr == nil {
				// Connection closed.
				return
			}
			if xerr != nil {
				log.Debugf("X event error: %v", xerr)
				continue
			}
			if _, ok := ev.(randr.ScreenChangeNotifyEvent); !ok {
				continue
			}
			select {
			case events <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (s *x11Session) Close() error {
	s.conn.Close()
	return nil
}
