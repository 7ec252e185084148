package changewallpaperlib

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Changer runs the fetch, set, and clean cycle on the configured interval.
type Changer struct {
	Config  *Config
	System  System
	Fetcher *Fetcher
	// nil unless offline_fallback is enabled
	Fallback *Fallback

	wait func(ctx context.Context, d time.Duration) error
}

func NewChanger(c *Config, sys System) *Changer {
	ch := &Changer{
		Config:  c,
		System:  sys,
		Fetcher: NewFetcher(),
		wait:    sleepContext,
	}
	if c.OfflineFallback {
		ch.Fallback = NewFallback(c)
	}
	return ch
}

// One fetch, set, and clean pass. The wallpaper is already applied when
// only the cleanup fails.
func (ch *Changer) Cycle(ctx context.Context) error {
	c := ch.Config

	w, err := ch.Fetcher.Fetch(ctx, c.DownloadDir)
	if err != nil {
		if ch.Fallback != nil && ctx.Err() == nil {
			if _, ferr := ch.Fallback.Apply(ch.System, c.DownloadDir, c.Extension()); ferr != nil {
				log.Printf("Offline fallback failed: %v\n", ferr)
			}
		}
		return err
	}

	if err = ch.System.SetWallpaper(w); err != nil {
		return fmt.Errorf("Error setting wallpaper [%s]: %w", w, err)
	}

	return CleanOldWallpapers(c.DownloadDir, c.Keep(), c.Extension())
}

// Runs cycles until ctx is cancelled. Failed cycles are logged and wait the
// full interval like successful ones.
func (ch *Changer) Run(ctx context.Context) error {
	log.Println("Wallpaper changer started. Waiting for first change...")

	for {
		err := ch.Cycle(ctx)
		if err != nil {
			log.Printf("Error changing wallpaper: %v\n", err)
		} else {
			log.Printf("Wallpaper changed successfully at %s\n",
				time.Now().Format(time.RFC1123))
		}

		if err = ch.wait(ctx, ch.Config.Interval()); err != nil {
			log.Println("Stopping wallpaper changer")
			return nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
