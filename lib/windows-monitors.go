//go:build windows

package spanlib

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/windows"
)

// winSession drives enumeration and wallpaper setting through user32 and
// the shell's IDesktopWallpaper.
type winSession struct{}

func NewSession() (Session, error) {
	return &winSession{}, nil
}

func (s *winSession) Close() error {
	return nil
}

const (
	displayDeviceActive          = 0x00000001
	displayDeviceMirroringDriver = 0x00000008
	enumCurrentSettings          = 0xFFFFFFFF
)

type pointL struct {
	X, Y int32
}

type displayDeviceW struct {
	Cb           uint32
	DeviceName   [32]uint16
	DeviceString [128]uint16
	StateFlags   uint32
	DeviceID     [128]uint16
	DeviceKey    [128]uint16
}

// devModeW is the display half of DEVMODEW; the printer union members are
// overlaid by Position through DisplayFixedOutput.
type devModeW struct {
	DeviceName         [32]uint16
	SpecVersion        uint16
	DriverVersion      uint16
	Size               uint16
	DriverExtra        uint16
	Fields             uint32
	Position           pointL
	DisplayOrientation uint32
	DisplayFixedOutput uint32
	Color              int16
	Duplex             int16
	YResolution        int16
	TTOption           int16
	Collate            int16
	FormName           [32]uint16
	LogPixels          uint16
	BitsPerPel         uint32
	PelsWidth          uint32
	PelsHeight         uint32
	DisplayFlags       uint32
	DisplayFrequency   uint32
	ICMMethod          uint32
	ICMIntent          uint32
	MediaType          uint32
	DitherType         uint32
	Reserved1          uint32
	Reserved2          uint32
	PanningWidth       uint32
	PanningHeight      uint32
}

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procEnumDisplayDevicesW  = user32.NewProc("EnumDisplayDevicesW")
	procEnumDisplaySettingsW = user32.NewProc("EnumDisplaySettingsW")
	procRegisterClassExW     = user32.NewProc("RegisterClassExW")
	procCreateWindowExW      = user32.NewProc("CreateWindowExW")
	procDefWindowProcW       = user32.NewProc("DefWindowProcW")
	procGetMessageW          = user32.NewProc("GetMessageW")
	procTranslateMessage     = user32.NewProc("TranslateMessage")
	procDispatchMessageW     = user32.NewProc("DispatchMessageW")
	procPostMessageW         = user32.NewProc("PostMessageW")
	procPostQuitMessage      = user32.NewProc("PostQuitMessage")
	procGetModuleHandleW     = kernel32.NewProc("GetModuleHandleW")
)

// ListDisplays walks the adapter list the way the control panel does.
// A device whose current mode cannot be read is reported inactive.
func (s *winSession) ListDisplays() ([]Display, error) {
	var displays []Display
	for i := uint32(0); ; i++ {
		var dev displayDeviceW
		dev.Cb = uint32(unsafe.Sizeof(dev))
		ret, _, _ := procEnumDisplayDevicesW.Call(
			0, uintptr(i), uintptr(unsafe.Pointer(&dev)), 0)
		if ret == 0 {
			break
		}

		d := Display{
			DeviceID:  windows.UTF16ToString(dev.DeviceName[:]),
			Active:    dev.StateFlags&displayDeviceActive != 0,
			Mirroring: dev.StateFlags&displayDeviceMirroringDriver != 0,
		}
		if d.Active && !d.Mirroring {
			var mode devModeW
			mode.Size = uint16(unsafe.Sizeof(mode))
			ret, _, _ := procEnumDisplaySettingsW.Call(
				uintptr(unsafe.Pointer(&dev.DeviceName[0])),
				uintptr(uint32(enumCurrentSettings)),
				uintptr(unsafe.Pointer(&mode)))
			if ret == 0 {
				log.Warnf("EnumDisplaySettingsW failed for [%s]", d.DeviceID)
				d.Active = false
			} else {
				d.X = int(mode.Position.X)
				d.Y = int(mode.Position.Y)
				d.Width = int(mode.PelsWidth)
				d.Height = int(mode.PelsHeight)
				d.RefreshHz = int(mode.DisplayFrequency)
				d.BitsPerPixel = int(mode.BitsPerPel)
				d.Orientation = devModeOrientation(mode.DisplayOrientation)
			}
		}
		displays = append(displays, d)
	}
	return displays, nil
}

func devModeOrientation(o uint32) Orientation {
	if o <= uint32(Orient270) {
		// DMDO values share the 90-degree-step ordinals
		return Orientation(o)
	}
	return OrientUnknown
}

const (
	wmDestroy               = 0x0002
	wmClose                 = 0x0010
	wmDisplayChange         = 0x007E
	hwndMessage     uintptr = ^uintptr(2)
)

type wndClassExW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     windows.Handle
	HIcon         windows.Handle
	HCursor       windows.Handle
	HbrBackground windows.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       windows.Handle
}

type winMsg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      pointL
}

// WatchDisplayChanges runs a hidden message-only window whose WM_DISPLAYCHANGE
// deliveries become events. Delivery blocks the message pump until the
// consumer takes the event, so change handling stays serial.
func (s *winSession) WatchDisplayChanges(ctx context.Context) (<-chan struct{}, error) {
	events := make(chan struct{})
	ready := make(chan error)

	go func() {
		// The window and its message pump must share one thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		clsName, _ := windows.UTF16PtrFromString("SpanwallDisplayListener")
		hInstance := getModuleHandle()

		wndProc := windows.NewCallback(func(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
			switch msg {
			case wmDisplayChange:
				select {
				case events <- struct{}{}:
				case <-ctx.Done():
				}
				return 0
			case wmDestroy:
				procPostQuitMessage.Call(0)
				return 0
			}
			r, _, _ := procDefWindowProcW.Call(hwnd, uintptr(msg), wParam, lParam)
			return r
		})

		var wc wndClassExW
		wc.CbSize = uint32(unsafe.Sizeof(wc))
		wc.LpfnWndProc = wndProc
		wc.HInstance = hInstance
		wc.LpszClassName = clsName
		if atom, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
			ready <- fmt.Errorf("RegisterClassExW: %v", err)
			return
		}

		hwnd, _, _ := procCreateWindowExW.Call(
			0,
			uintptr(unsafe.Pointer(clsName)),
			uintptr(unsafe.Pointer(clsName)),
			0,
			0, 0, 0, 0,
			hwndMessage,
			0,
			uintptr(hInstance),
			0)
		if hwnd == 0 {
			ready <- errors.New("CreateWindowExW failed")
			return
		}
		ready <- nil

		go func() {
			<-ctx.Done()
			procPostMessageW.Call(hwnd, wmClose, 0, 0)
		}()

		var msg winMsg
		for {
			ret, _, _ := procGetMessageW.Call(
				uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(ret) == -1 {
				log.Errorf("GetMessageW failed")
				break
			}
			if ret == 0 {
				break
			}
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
		}
		close(events)
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return events, nil
}

func getModuleHandle() windows.Handle {
	r, _, _ := procGetModuleHandleW.Call(0)
	return windows.Handle(r)
}
