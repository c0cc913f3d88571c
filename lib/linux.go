//go:build !windows && !darwin

package spanlib

import (
	"errors"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"syscall"
)

var sysProcAttr = &syscall.SysProcAttr{}

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

// gsettings talks to dconf over the session bus, which cron-like
// environments don't export.
func setDBUSAddress() error {
	if os.Getenv(dbusAddress) != "" {
		return nil
	}

	// Assume per-user dbus sessions
	u, err := user.Current()
	if err != nil {
		return nil
	}
	if u.Uid == "" {
		return errors.New("No $UID set")
	}
	return os.Setenv(dbusAddress, "unix:path=/run/user/"+u.Uid+"/bus")
}

// CurrentWallpaper reports the desktop's existing wallpaper file, or ""
// when the environment offers no way to ask.
func (s *x11Session) CurrentWallpaper() (string, error) {
	if s.env != gnome {
		return "", nil
	}

	out, err := runBash(`gsettings get org.gnome.desktop.background picture-uri`)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(strings.Trim(out, "'\n"), "file://"), nil
}

// SetWallpaper points the desktop at the composed file. GNOME spans it
// across monitors itself; everywhere else feh maps it 1:1 onto the root
// window from the origin.
func (s *x11Session) SetWallpaper(path string) error {
	if err := setDBUSAddress(); err != nil {
		return err
	}

	if s.env == gnome {
		_, err := runBash(`
			gsettings set org.gnome.desktop.background picture-options spanned
			gsettings set org.gnome.desktop.background picture-uri "file://` + path + `"
		`)
		return err
	}

	cmd := exec.Command("feh", "--no-xinerama", "--bg-tile", path)
	cmd.SysProcAttr = sysProcAttr
	return cmd.Run()
}

func runBash(cmd string) (string, error) {
	// See http://redsymbol.net/articles/unofficial-bash-strict-mode/
	command := `
		set -euo pipefail
		IFS=$'\n\t'
		` + cmd + "\n"

	bash := exec.Command("/usr/bin/env", "bash")
	bash.Stdin = strings.NewReader(command)
	bash.Stderr = os.Stderr

	bashOut, err := bash.Output()
	return string(bashOut), err
}
