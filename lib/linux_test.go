//go:build linux
// +build linux

package changewallpaperlib

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopEntryAutostart(t *testing.T) {
	config := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", config)
	sys := NewSystem("")

	_, err := sys.Autostart()
	assert.ErrorIs(t, err, ErrAutostartNotFound)

	command := AutostartCommand("/opt/manyacg/manyacg-wallpaper")
	require.NoError(t, sys.SetAutostart(command))

	got, err := sys.Autostart()
	require.NoError(t, err)
	assert.Equal(t, command, got)

	_, err = os.Stat(filepath.Join(config, "autostart", AppName+".desktop"))
	require.NoError(t, err)

	require.NoError(t, sys.RemoveAutostart())
	assert.ErrorIs(t, sys.RemoveAutostart(), ErrAutostartNotFound)
	assert.NoError(t, DisableAutostart(sys))
}

func TestGnomeWallpaperDarkKeyFailure(t *testing.T) {
	var commands []string
	old := runCommand
	runCommand = func(name string, args ...string) error {
		commands = append(commands, strings.Join(args, " "))
		if strings.Contains(args[len(args)-2], "dark") {
			return errors.New("No such key")
		}
		return nil
	}
	t.Cleanup(func() { runCommand = old })

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	sys := &unixSystem{position: PositionFill}
	require.NoError(t, sys.setGnomeWallpaper("/tmp/a.webp"))

	assert.Len(t, commands, 3)
	assert.Contains(t, commands[2], "picture-options zoom")
	assert.Contains(t, logs.String(), "Error setting dark theme wallpaper")
	assert.Contains(t, logs.String(), "No such key")
}

func TestGnomeWallpaperFailure(t *testing.T) {
	errFailed := errors.New("gsettings missing")
	old := runCommand
	runCommand = func(name string, args ...string) error { return errFailed }
	t.Cleanup(func() { runCommand = old })

	sys := &unixSystem{}
	assert.ErrorIs(t, sys.setGnomeWallpaper("/tmp/a.webp"), errFailed)
}
