//go:build windows

package spanlib

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"github.com/charmbracelet/log"
	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows/registry"
)

// IDesktopWallpaper does not extend IDispatch so this needs to be done manually
type iDesktopWallpaperVtbl struct {
	QueryInterface            uintptr
	AddRef                    uintptr
	Release                   uintptr
	SetWallpaper              uintptr
	GetWallpaper              uintptr
	GetMonitorDevicePathAt    uintptr
	GetMonitorDevicePathCount uintptr
	GetMonitorRECT            uintptr
	SetBackgroundColor        uintptr
	GetBackgroundColor        uintptr
	SetPosition               uintptr
	GetPosition               uintptr
	SetSlideshow              uintptr
	GetSlideshow              uintptr
	SetSlideshowOptions       uintptr
	GetSlideshowOptions       uintptr
	AdvanceSlideshow          uintptr
	GetStatus                 uintptr
	Enable                    uintptr
}

// Pulled from headers
const desktopWallpaperCLSID = "{C2CF3110-460E-4fc1-B9D0-8A1C0C9CC4BD}"
const desktopWallpaperIID = "{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}"
const dwposSpan = uintptr(5)

const (
	spiGetDeskWallpaper = uintptr(0x0073)
	spiSetDeskWallpaper = uintptr(0x0014)
	spifUpdateIniFile   = uintptr(0x01)
	spifSendChange      = uintptr(0x02)
)

var procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")

func (s *winSession) CurrentWallpaper() (string, error) {
	var buf [260]uint16
	ret, _, err := procSystemParametersInfoW.Call(
		spiGetDeskWallpaper,
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&buf[0])),
		0)
	if ret == 0 {
		return "", fmt.Errorf("Unexpected value from SystemParametersInfoW %v", err)
	}
	return syscall.UTF16ToString(buf[:]), nil
}

// SetWallpaper applies the composed image across every monitor. The shell's
// IDesktopWallpaper spans it natively; older shells get the classic
// SystemParametersInfoW call, which still works because the image already
// matches the virtual desktop.
func (s *winSession) SetWallpaper(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpg" || ext == ".jpeg" {
		if err := setRegistryKeys(); err != nil {
			log.Warnf("Failed setting JPEG import quality: %v", err)
		}
	}

	if err := setWallpaperSpanned(path); err != nil {
		log.Warnf("IDesktopWallpaper unavailable, falling back to SystemParametersInfoW: %v", err)
		return setWallpaperLegacy(path)
	}
	return nil
}

func setWallpaperSpanned(path string) error {
	err := ole.CoInitialize(0)
	if err != nil {
		return err
	}
	defer ole.CoUninitialize()

	desktop, err := ole.CreateInstance(
		ole.NewGUID(desktopWallpaperCLSID),
		ole.NewGUID(desktopWallpaperIID))
	if err != nil {
		return err
	}
	defer desktop.Release()

	vtable := (*iDesktopWallpaperVtbl)(unsafe.Pointer(desktop.RawVTable))

	hr, _, _ := syscall.Syscall(
		vtable.SetPosition,
		2,
		uintptr(unsafe.Pointer(desktop)),
		dwposSpan,
		0)
	if hr != 0 {
		return fmt.Errorf("Unexpected value from SetPosition %d", hr)
	}

	// A NULL monitor ID applies the wallpaper to every monitor
	hr, _, _ = syscall.Syscall(
		vtable.SetWallpaper,
		3,
		uintptr(unsafe.Pointer(desktop)),
		0,
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(path))))
	if hr != 0 {
		return fmt.Errorf("Unexpected value from SetWallpaper %d", hr)
	}

	return nil
}

func setWallpaperLegacy(path string) error {
	ret, _, err := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(path))),
		spifUpdateIniFile|spifSendChange)
	if ret == 0 {
		return fmt.Errorf("Unexpected value from SystemParametersInfoW %v", err)
	}
	return nil
}

// Stops the shell from recompressing JPEG output on import
func setRegistryKeys() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\Desktop`, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	return k.SetDWordValue("JPEGImportQuality", 100)
}
