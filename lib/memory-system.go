package changewallpaperlib

import (
	"log"
	"sync"
)

// MemorySystem is a System that never touches the OS. Used for --dry-run and
// in tests.
type MemorySystem struct {
	mu         sync.Mutex
	wallpapers []AbsolutePath
	autostart  *string
	respawns   [][]string

	// Returned from SetWallpaper when set
	SetWallpaperErr error
}

func NewMemorySystem() *MemorySystem {
	return &MemorySystem{}
}

func (m *MemorySystem) SetWallpaper(path AbsolutePath) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetWallpaperErr != nil {
		return m.SetWallpaperErr
	}

	log.Printf("Dry run: wallpaper set to [%s]\n", path)
	m.wallpapers = append(m.wallpapers, path)
	return nil
}

// Every wallpaper set so far, oldest first
func (m *MemorySystem) Wallpapers() []AbsolutePath {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]AbsolutePath(nil), m.wallpapers...)
}

func (m *MemorySystem) SetAutostart(command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.autostart = &command
	return nil
}

func (m *MemorySystem) RemoveAutostart() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.autostart == nil {
		return ErrAutostartNotFound
	}
	m.autostart = nil
	return nil
}

func (m *MemorySystem) Autostart() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.autostart == nil {
		return "", ErrAutostartNotFound
	}
	return *m.autostart, nil
}

func (m *MemorySystem) Respawn(args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.respawns = append(m.respawns, append([]string(nil), args...))
	return nil
}

func (m *MemorySystem) Respawns() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([][]string(nil), m.respawns...)
}
