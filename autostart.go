package main

import (
	"fmt"

	lib "github.com/awused/manyacg-wallpaper/lib"
)

func uninstallAction(sys lib.System) error {
	err := lib.DisableAutostart(sys)
	if err != nil {
		return err
	}

	fmt.Println("Autostart disabled. Program will exit now.")
	return nil
}

// Processes started at login get a console window, the respawned copy runs
// without one
func startupAction(sys lib.System) error {
	err := lib.EnableAutostart(sys)
	if err != nil {
		return err
	}

	return lib.RespawnForStartup(sys)
}
