package changewallpaperlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type AbsolutePath = string

const AppName = "manyacg-wallpaper"

const configFileName = "config.json"
const defaultIntervalMins = 60

// Largest interval that still fits in a time.Duration
const maxIntervalMins = uint64(math.MaxInt64 / int64(time.Minute))

const DefaultKeepCount = 5
const DefaultImageExtension = ".webp"

type Config struct {
	DownloadDir string `json:"download_dir" toml:"download_dir"`
	// Minutes, converted to seconds by multiplying by 60
	ChangeIntervalMins uint64 `json:"change_interval_mins" toml:"change_interval_mins"`
	KeepCount          uint   `json:"keep_count,omitempty" toml:"keep_count,omitempty"`
	ImageExtension     string `json:"image_extension,omitempty" toml:"image_extension,omitempty"`
	Position           string `json:"position,omitempty" toml:"position,omitempty"`
	OfflineFallback    bool   `json:"offline_fallback,omitempty" toml:"offline_fallback,omitempty"`
	LogFile            string `json:"log_file,omitempty" toml:"log_file,omitempty"`

	dir string
}

// Returns %APPDATA%, or ./appdata when it isn't set
func AppDataDir() (string, error) {
	if d := os.Getenv("APPDATA"); d != "" {
		return d, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, "appdata"), nil
}

func DefaultConfigPath() (string, error) {
	appData, err := AppDataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(appData, AppName, configFileName), nil
}

// Loads the config file at path, creating it with default values if it does
// not exist. An empty path means DefaultConfigPath().
func Init(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	c, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	if err = c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadConfig(path string) (*Config, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("Error creating config directory [%s]: %w", dir, err)
	}

	c := &Config{}
	err := readConfig(path, c)
	if err == nil {
		c.dir = dir
		return c, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	c = defaultConfig(dir)
	if err = writeConfig(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

func defaultConfig(dir string) *Config {
	return &Config{
		DownloadDir:        filepath.Join(dir, "wallpapers"),
		ChangeIntervalMins: defaultIntervalMins,
		dir:                dir,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func readConfig(path string, c *Config) error {
	if isTOML(path) {
		if _, err := os.Stat(path); err != nil {
			return err
		}
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("Error parsing config file [%s]: %w", path, err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("Error parsing config file [%s]: %w", path, err)
	}
	return nil
}

func writeConfig(path string, c *Config) error {
	var data []byte
	if isTOML(path) {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(c); err != nil {
			return err
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("Error writing config file [%s]: %w", path, err)
	}
	return nil
}

// The directory holding the config file
func (c *Config) Dir() string {
	return c.dir
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.ChangeIntervalMins) * time.Minute
}

func (c *Config) Keep() int {
	if c.KeepCount == 0 {
		return DefaultKeepCount
	}
	return int(c.KeepCount)
}

func (c *Config) Extension() string {
	if c.ImageExtension == "" {
		return DefaultImageExtension
	}
	if !strings.HasPrefix(c.ImageExtension, ".") {
		return "." + c.ImageExtension
	}
	return c.ImageExtension
}

func (c *Config) validate() error {
	if c.DownloadDir == "" {
		return fmt.Errorf("Config missing download_dir")
	}

	fi, err := os.Stat(c.DownloadDir)
	if err == nil && !fi.IsDir() {
		return fmt.Errorf("download_dir [%s] is a regular file", c.DownloadDir)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(
			"Error calling os.Stat on download_dir [%s]: %w", c.DownloadDir, err)
	}

	if c.ChangeIntervalMins == 0 {
		return fmt.Errorf("change_interval_mins must be greater than 0")
	}
	if c.ChangeIntervalMins > maxIntervalMins {
		return fmt.Errorf(
			"change_interval_mins must be at most %d, got %d", maxIntervalMins, c.ChangeIntervalMins)
	}

	if c.Position != "" {
		if _, ok := positions[Position(c.Position)]; !ok {
			return fmt.Errorf("Unknown position [%s]", c.Position)
		}
	}

	return nil
}
