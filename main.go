package main

import (
	"log"
	"os"

	lib "github.com/awused/manyacg-wallpaper/lib"
	"github.com/urfave/cli/v2"
)

const startup = lib.StartupFlag
const uninstall = "uninstall"
const once = "once"
const dryRun = "dry-run"
const config = "config"

// Replaced in tests so the dry run system can be inspected afterwards
var newMemorySystem = lib.NewMemorySystem

func main() {
	lib.AttachParentConsole()

	err := newApp().Run(os.Args)
	checkErr(err)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = lib.AppName
	app.Usage = "Periodically replace the desktop wallpaper with a random image from ManyACG"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  startup,
			Usage: "Register to run at login, then restart in the background",
		},
		&cli.BoolFlag{
			Name:  uninstall,
			Usage: "Remove the login entry and exit",
		},
		&cli.BoolFlag{
			Name:  once,
			Usage: "Change the wallpaper a single time and exit",
		},
		&cli.BoolFlag{
			Name:  dryRun,
			Usage: "Download and clean up wallpapers without changing the desktop or registry",
		},
		&cli.StringFlag{
			Name:  config,
			Usage: "Path to a .json or .toml config file, created if missing",
		},
	}

	app.Action = mainAction
	return app
}

func mainAction(c *cli.Context) error {
	sys := systemFor(c, "")

	if c.Bool(uninstall) {
		return uninstallAction(sys)
	}

	if c.Bool(startup) && !lib.IsRespawnedChild() {
		return startupAction(sys)
	}

	return runAction(c)
}

func systemFor(c *cli.Context, position lib.Position) lib.System {
	if c.Bool(dryRun) {
		return newMemorySystem()
	}
	return lib.NewSystem(position)
}

func checkErr(err error) {
	if err != nil {
		log.Println(err)
		panic(err)
	}
}
