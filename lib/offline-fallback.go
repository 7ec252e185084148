package changewallpaperlib

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/awused/go-strpick/persistent"
)

const pickerDirName = "picker"

// Fallback re-applies a wallpaper that has already been downloaded when the
// API can't be reached. Selection is persisted so the same few files aren't
// shown back to back across restarts.
type Fallback struct {
	DatabaseDir string
}

func NewFallback(c *Config) *Fallback {
	return &Fallback{DatabaseDir: filepath.Join(c.Dir(), pickerDirName)}
}

// Returns the applied wallpaper, or "" when dir has no wallpapers
func (f *Fallback) Apply(sys System, dir, ext string) (AbsolutePath, error) {
	files, err := listWallpapers(dir, ext)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", nil
	}

	names := make([]string, len(files))
	for i, w := range files {
		names[i] = filepath.Base(w.path)
	}

	picker, err := persistent.NewPicker(f.DatabaseDir)
	if err != nil {
		return "", fmt.Errorf("Error opening picker database [%s]: %w", f.DatabaseDir, err)
	}
	defer picker.Close()

	if err = picker.AddAll(names); err != nil {
		return "", err
	}

	// Forget wallpapers the retention sweep already deleted
	if err = picker.CleanDB(); err != nil {
		return "", err
	}

	picked, err := picker.TryUniqueN(1)
	if err != nil {
		return "", err
	}
	if len(picked) == 0 {
		return "", nil
	}

	w, err := filepath.Abs(filepath.Join(dir, picked[0]))
	if err != nil {
		return "", err
	}

	if err = sys.SetWallpaper(w); err != nil {
		return "", fmt.Errorf("Error setting fallback wallpaper [%s]: %w", w, err)
	}
	log.Printf("Reapplied previous wallpaper [%s]\n", w)
	return w, nil
}
