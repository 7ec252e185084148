package changewallpaperlib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChanger(t *testing.T, srv *httptest.Server, c *Config) (*Changer, *MemorySystem) {
	t.Helper()

	sys := NewMemorySystem()
	ch := NewChanger(c, sys)
	ch.Fetcher = testFetcher(srv)
	return ch, sys
}

func mkdir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func testConfig(t *testing.T) *Config {
	dir := t.TempDir()
	return &Config{
		DownloadDir:        filepath.Join(dir, "wallpapers"),
		ChangeIntervalMins: 2,
		dir:                dir,
	}
}

// Cancels ctx after n waits and records every requested duration
func stopAfter(n int, cancel context.CancelFunc, waits *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		if len(*waits) >= n {
			cancel()
			return ctx.Err()
		}
		return nil
	}
}

func TestCycle(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, mkdir(c.DownloadDir))
	createWallpapers(t, c.DownloadDir, 7, time.Now().Add(-time.Hour))

	ch, sys := testChanger(t, newAPIServer(t, pngBytes(t)), c)

	require.NoError(t, ch.Cycle(context.Background()))

	want := filepath.Join(c.DownloadDir, "20240102030405_abc.webp")
	assert.Equal(t, []AbsolutePath{want}, sys.Wallpapers())

	names := dirNames(t, c.DownloadDir)
	assert.Len(t, names, DefaultKeepCount)
	assert.Contains(t, names, "20240102030405_abc.webp")
}

func TestCycleSetWallpaperFailure(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, mkdir(c.DownloadDir))

	ch, sys := testChanger(t, newAPIServer(t, pngBytes(t)), c)
	errDesktop := errors.New("desktop unavailable")
	sys.SetWallpaperErr = errDesktop

	assert.ErrorIs(t, ch.Cycle(context.Background()), errDesktop)
}

func TestRunWaitsInterval(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, mkdir(c.DownloadDir))
	ch, sys := testChanger(t, newAPIServer(t, pngBytes(t)), c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var waits []time.Duration
	ch.wait = stopAfter(3, cancel, &waits)

	require.NoError(t, ch.Run(ctx))

	assert.Equal(t, []time.Duration{
		120 * time.Second, 120 * time.Second, 120 * time.Second}, waits)
	assert.Len(t, sys.Wallpapers(), 3)
}

func TestRunContinuesAfterFailedCycles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := testConfig(t)
	require.NoError(t, mkdir(c.DownloadDir))
	ch, sys := testChanger(t, srv, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var waits []time.Duration
	ch.wait = stopAfter(2, cancel, &waits)

	require.NoError(t, ch.Run(ctx))

	assert.Len(t, waits, 2)
	assert.Empty(t, sys.Wallpapers())
}

func TestSleepContext(t *testing.T) {
	start := time.Now()
	require.NoError(t, sleepContext(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestCycleOfflineFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	c := testConfig(t)
	c.OfflineFallback = true
	require.NoError(t, mkdir(c.DownloadDir))
	names := createWallpapers(t, c.DownloadDir, 3, time.Now())

	ch, sys := testChanger(t, srv, c)
	require.NotNil(t, ch.Fallback)

	assert.Error(t, ch.Cycle(context.Background()))

	set := sys.Wallpapers()
	require.Len(t, set, 1)
	assert.Contains(t, names, filepath.Base(set[0]))
	assert.Equal(t, c.DownloadDir, filepath.Dir(set[0]))
}

func TestFallbackWithoutWallpapers(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, mkdir(c.DownloadDir))
	sys := NewMemorySystem()

	w, err := NewFallback(c).Apply(sys, c.DownloadDir, c.Extension())
	require.NoError(t, err)
	assert.Empty(t, w)
	assert.Empty(t, sys.Wallpapers())
}

func TestFallbackDisabledByDefault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	c := testConfig(t)
	require.NoError(t, mkdir(c.DownloadDir))
	createWallpapers(t, c.DownloadDir, 3, time.Now())

	ch, sys := testChanger(t, srv, c)
	assert.Nil(t, ch.Fallback)

	assert.Error(t, ch.Cycle(context.Background()))
	assert.Empty(t, sys.Wallpapers())
}
