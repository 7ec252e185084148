package changewallpaperlib

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type wallpaperFile struct {
	path    AbsolutePath
	modTime time.Time
}

// Regular files in dir with extension ext, in directory listing order
func listWallpapers(dir, ext string) ([]wallpaperFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []wallpaperFile
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}

		fi, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// Removed since ReadDir
			continue
		}
		if err != nil {
			return nil, err
		}

		files = append(files, wallpaperFile{
			path:    filepath.Join(dir, e.Name()),
			modTime: fi.ModTime()})
	}
	return files, nil
}

// Deletes all but the keep most recently modified wallpapers in dir.
// A failed delete does not stop the sweep, every failure is returned together.
func CleanOldWallpapers(dir string, keep int, ext string) error {
	return cleanOldWallpapers(dir, keep, ext, os.Remove)
}

func cleanOldWallpapers(
	dir string, keep int, ext string, remove func(string) error) error {
	files, err := listWallpapers(dir, ext)
	if err != nil {
		return err
	}

	if len(files) <= keep {
		return nil
	}

	// Newest first, ties stay in listing order
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	var errs []error
	for _, f := range files[keep:] {
		if err := remove(f.path); err != nil {
			errs = append(errs, fmt.Errorf("Error removing old wallpaper [%s]: %w", f.path, err))
			continue
		}
		log.Printf("Removed old wallpaper: [%s]\n", f.path)
	}

	return errors.Join(errs...)
}
