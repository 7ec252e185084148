//go:build !windows
// +build !windows

package changewallpaperlib

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

var sysProcAttr = &syscall.SysProcAttr{Setsid: true}

// picture-options values for each position
var gnomeOptions = map[Position]string{
	PositionCenter:  "centered",
	PositionTile:    "wallpaper",
	PositionStretch: "stretched",
	PositionFit:     "scaled",
	PositionFill:    "zoom",
	PositionSpan:    "spanned",
}

var fehOptions = map[Position]string{
	PositionCenter:  "--bg-center",
	PositionTile:    "--bg-tile",
	PositionStretch: "--bg-scale",
	PositionFit:     "--bg-max",
	PositionFill:    "--bg-fill",
	PositionSpan:    "--bg-fill",
}

type unixSystem struct {
	position Position
}

func NewSystem(position Position) System {
	return &unixSystem{position: position}
}

func isGnome() bool {
	desktop := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP"))
	return strings.Contains(desktop, "gnome") || strings.Contains(desktop, "unity")
}

func (u *unixSystem) SetWallpaper(path AbsolutePath) error {
	if isGnome() {
		return u.setGnomeWallpaper(path)
	}
	return u.setFehWallpaper(path)
}

func (u *unixSystem) setGnomeWallpaper(path AbsolutePath) error {
	uri := "file://" + path
	if err := runCommand(
		"gsettings", "set", "org.gnome.desktop.background", "picture-uri", uri); err != nil {
		return err
	}
	// Newer GNOME releases read a separate key when the dark theme is active
	if err := runCommand(
		"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", uri); err != nil {
		log.Printf("Error setting dark theme wallpaper: %v\n", err)
	}

	if opt, ok := gnomeOptions[u.position]; ok {
		return runCommand(
			"gsettings", "set", "org.gnome.desktop.background", "picture-options", opt)
	}
	return nil
}

func (u *unixSystem) setFehWallpaper(path AbsolutePath) error {
	opt, ok := fehOptions[u.position]
	if !ok {
		opt = "--bg-fill"
	}
	return runCommand("feh", opt, path)
}

var runCommand = execCommand

func execCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("Error running [%s %s]: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func autostartFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "autostart", AppName+".desktop"), nil
}

func (u *unixSystem) SetAutostart(command string) error {
	f, err := autostartFile()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(f), 0755); err != nil {
		return err
	}

	entry := "[Desktop Entry]\n" +
		"Type=Application\n" +
		"Name=" + AutostartValueName + "\n" +
		"Exec=" + command + "\n" +
		"X-GNOME-Autostart-enabled=true\n"
	return os.WriteFile(f, []byte(entry), 0644)
}

func (u *unixSystem) RemoveAutostart() error {
	f, err := autostartFile()
	if err != nil {
		return err
	}

	err = os.Remove(f)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: [%s]", ErrAutostartNotFound, f)
	}
	return err
}

func (u *unixSystem) Autostart() (string, error) {
	f, err := autostartFile()
	if err != nil {
		return "", err
	}

	file, err := os.Open(f)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrAutostartNotFound
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if cmd, ok := strings.CutPrefix(scanner.Text(), "Exec="); ok {
			return cmd, nil
		}
	}
	if err = scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: no Exec line in [%s]", ErrAutostartNotFound, f)
}

func (u *unixSystem) Respawn(args []string) error {
	cmd, err := respawnCommand(args)
	if err != nil {
		return err
	}

	cmd.SysProcAttr = sysProcAttr
	return startDetached(cmd)
}

// No-op
func AttachParentConsole() {}
