package changewallpaperlib

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Redirects to a random image
const APIURL = "https://manyacg.top/setu"
const UserAgent = "ManyACG-Wallpaper-Changer"

const defaultFileName = "wallpaper.webp"

// Sorts lexicographically in chronological order
const timestampLayout = "20060102150405"

type Fetcher struct {
	Client *http.Client
	URL    string

	now func() time.Time
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		Client: http.DefaultClient,
		URL:    APIURL,
		now:    time.Now,
	}
}

// Downloads a new wallpaper into dir and returns its absolute path.
func (f *Fetcher) Fetch(ctx context.Context, dir string) (AbsolutePath, error) {
	log.Println("Requesting wallpaper from API...")
	resp, err := f.get(ctx, f.URL)
	if err != nil {
		return "", err
	}
	// The body of the redirect target is fetched again below, only the final
	// URL matters here
	resp.Body.Close()

	finalURL := resp.Request.URL
	log.Printf("Got wallpaper URL: %s\n", finalURL)

	log.Println("Downloading wallpaper...")
	resp, err = f.get(ctx, finalURL.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("Error reading wallpaper from [%s]: %w", finalURL, err)
	}

	format, err := checkImage(data)
	if err != nil {
		return "", fmt.Errorf("Bad response from [%s]: %w", finalURL, err)
	}

	name := withExtension(fileNameFromURL(finalURL), format)
	out := filepath.Join(dir, f.now().Format(timestampLayout)+"_"+name)

	if err = writeFileAtomic(out, data); err != nil {
		return "", err
	}
	log.Printf("Wallpaper downloaded to: %s\n", out)

	return filepath.Abs(out)
}

func (f *Fetcher) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("Unexpected status [%s] from [%s]", resp.Status, u)
	}
	return resp, nil
}

// Last path segment of u, or defaultFileName if there isn't one
func fileNameFromURL(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return defaultFileName
	}

	// u.Path is unescaped and may contain a backslash on Windows
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return defaultFileName
	}
	return name
}

// Names without an extension would never be matched by the retention sweep
func withExtension(name, format string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	return name + "." + format
}

// Writes to a temporary file in the same directory first so a failed
// download never leaves a partial image for the retention sweep to count
func writeFileAtomic(out string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".download-*")
	if err != nil {
		return fmt.Errorf("Error creating temporary file for [%s]: %w", out, err)
	}

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), out)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("Error writing wallpaper [%s]: %w", out, err)
	}
	return nil
}
