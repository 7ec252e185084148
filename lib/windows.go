//go:build windows
// +build windows

package changewallpaperlib

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// DesktopWallpaper does not extend IDispatch so this needs to be done manually
type IDesktopWallpaperVtbl struct {
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
const CLSID = "{C2CF3110-460E-4fc1-B9D0-8A1C0C9CC4BD}"
const IID = "{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}"

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

const runKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`

var sysProcAttr = &syscall.SysProcAttr{
	HideWindow:    true,
	CreationFlags: windows.CREATE_NO_WINDOW,
}

var moduser32 = windows.NewLazySystemDLL("user32.dll")
var procSystemParametersInfoW = moduser32.NewProc("SystemParametersInfoW")

type windowsSystem struct {
	position Position
}

func NewSystem(position Position) System {
	return &windowsSystem{position: position}
}

func (w *windowsSystem) SetWallpaper(path AbsolutePath) error {
	if w.position != "" {
		if err := setPosition(w.position); err != nil {
			return err
		}
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	ret, _, err := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(p)),
		spifUpdateIniFile|spifSendChange)
	if ret == 0 {
		return fmt.Errorf("Failed to set wallpaper [%s]: %v", path, err)
	}

	return nil
}

// COM is initialized per OS thread, so the goroutine must stay on one thread
// between CoInitialize and CoUninitialize.
func withCOM(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := ole.CoInitialize(0)
	if err != nil {
		// S_FALSE means COM was already initialized on this thread, the call
		// still has to be balanced
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != 1 {
			return err
		}
	}
	defer ole.CoUninitialize()

	return fn()
}

func setPosition(position Position) error {
	dwpos, ok := positions[position]
	if !ok {
		return fmt.Errorf("Unknown position [%s]", position)
	}

	return withCOM(func() error {
		desktop, err := ole.CreateInstance(
			ole.NewGUID(CLSID),
			ole.NewGUID(IID))
		if err != nil {
			return err
		}
		defer desktop.Release()

		vtable := (*IDesktopWallpaperVtbl)(unsafe.Pointer(desktop.RawVTable))

		hr, _, _ := syscall.Syscall(
			vtable.SetPosition,
			2,
			uintptr(unsafe.Pointer(desktop)),
			dwpos,
			0)
		if hr != 0 {
			return fmt.Errorf("Unexpected value from SetPosition %d", hr)
		}
		return nil
	})
}

func (w *windowsSystem) SetAutostart(command string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	return k.SetStringValue(AutostartValueName, command)
}

func (w *windowsSystem) RemoveAutostart() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%w: key [%s]", ErrAutostartNotFound, runKey)
	}
	if err != nil {
		return err
	}
	defer k.Close()

	err = k.DeleteValue(AutostartValueName)
	if errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%w: value [%s]", ErrAutostartNotFound, AutostartValueName)
	}
	return err
}

func (w *windowsSystem) Autostart() (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return "", ErrAutostartNotFound
	}
	if err != nil {
		return "", err
	}
	defer k.Close()

	v, _, err := k.GetStringValue(AutostartValueName)
	if errors.Is(err, registry.ErrNotExist) {
		return "", ErrAutostartNotFound
	}
	return v, err
}

func (w *windowsSystem) Respawn(args []string) error {
	cmd, err := respawnCommand(args)
	if err != nil {
		return err
	}

	cmd.SysProcAttr = sysProcAttr
	return startDetached(cmd)
}

const ATTACH_PARENT_PROCESS = uintptr(^uint32(0)) // (DWORD)-1

var modkernel32 = windows.NewLazySystemDLL("kernel32.dll")
var procAttachConsole = modkernel32.NewProc("AttachConsole")

// Attempts to attach to the parent console if one exists so we can get stdout
// Note that it's impossible to properly redirect stdin
// See https://stackoverflow.com/questions/23743217/
func AttachParentConsole() {
	r, _, _ := procAttachConsole.Call(ATTACH_PARENT_PROCESS)
	if r == 0 {
		return
	}

	hout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return
	}
	herr, err := windows.GetStdHandle(windows.STD_ERROR_HANDLE)
	if err != nil {
		return
	}

	os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
}
