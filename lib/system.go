package changewallpaperlib

// System is every change the program makes to the operating system.
// NewSystem returns the real implementation for the current platform,
// MemorySystem records everything in memory instead.
type System interface {
	// Applies an image as the desktop background
	SetWallpaper(path AbsolutePath) error
	// Registers command to be run at login, replacing any existing entry
	SetAutostart(command string) error
	// Returns ErrAutostartNotFound if nothing is registered
	RemoveAutostart() error
	// Returns the registered command or ErrAutostartNotFound
	Autostart() (string, error)
	// Starts a detached, windowless copy of this executable with args
	Respawn(args []string) error
}

// How the wallpaper is fit to the desktop
type Position string

const (
	PositionCenter  Position = "center"
	PositionTile    Position = "tile"
	PositionStretch Position = "stretch"
	PositionFit     Position = "fit"
	PositionFill    Position = "fill"
	PositionSpan    Position = "span"
)

// Values are DESKTOP_WALLPAPER_POSITION from shobjidl.h
var positions = map[Position]uintptr{
	PositionCenter:  0,
	PositionTile:    1,
	PositionStretch: 2,
	PositionFit:     3,
	PositionFill:    4,
	PositionSpan:    5,
}
