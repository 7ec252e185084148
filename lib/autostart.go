package changewallpaperlib

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// Name of the login entry, the registry value name on Windows
const AutostartValueName = "ManyacgWallpaper"

const StartupFlag = "startup"

// Set in the environment of a respawned child so it runs the main loop
// instead of respawning again
const ChildEnv = "MANYACG_WALLPAPER_CHILD"

var ErrAutostartNotFound = errors.New("Autostart entry not found")

func AutostartCommand(exe AbsolutePath) string {
	return `"` + exe + `" --` + StartupFlag
}

func executable() (AbsolutePath, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Abs(exe)
}

func EnableAutostart(sys System) error {
	exe, err := executable()
	if err != nil {
		return err
	}

	if err = sys.SetAutostart(AutostartCommand(exe)); err != nil {
		return fmt.Errorf("Error registering autostart: %w", err)
	}

	log.Println("Set program to run at startup")
	return nil
}

// A missing entry is logged and not treated as an error
func DisableAutostart(sys System) error {
	err := sys.RemoveAutostart()
	if errors.Is(err, ErrAutostartNotFound) {
		log.Printf("Failed to remove from startup: %v\n", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("Error removing autostart: %w", err)
	}

	log.Println("Removed program from startup")
	return nil
}

func IsRespawnedChild() bool {
	return os.Getenv(ChildEnv) == "1"
}

func RespawnForStartup(sys System) error {
	return sys.Respawn([]string{"--" + StartupFlag})
}

// Platform implementations set SysProcAttr before starting it
func respawnCommand(args []string) (*exec.Cmd, error) {
	exe, err := executable()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), ChildEnv+"=1")
	return cmd, nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("Error starting [%s]: %w", cmd.Path, err)
	}
	return cmd.Process.Release()
}
