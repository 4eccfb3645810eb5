// Package config loads rsx project settings from Rsx.toml, environment
// variables and builtin defaults, in increasing order of precedence:
// defaults, then the file, then RSX_* variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileNames are the names probed for a project config, in order.
var FileNames = []string{"Rsx.toml", "rsx.toml"}

const envPrefix = "RSX_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the commented default config written by `rsx init`.
func DefaultContent() []byte {
	return append([]byte(nil), defaultConfig...)
}

type Config struct {
	Application Application `koanf:"application"`
	Schema      Schema      `koanf:"schema"`
	Render      Render      `koanf:"render"`
	Format      Format      `koanf:"format"`

	// Path is the config file that was loaded, empty when none was found.
	Path string `koanf:"-"`
}

type Application struct {
	Name   string `koanf:"name"`
	OutDir string `koanf:"out_dir"`
}

type Schema struct {
	Extensions []string `koanf:"extensions"`
}

type Render struct {
	Strict   bool `koanf:"strict"`
	XMLNS    bool `koanf:"xmlns"`
	MaxDepth int  `koanf:"max_depth"`
}

type Format struct {
	Extensions  []string      `koanf:"extensions"`
	CacheDir    string        `koanf:"cache_dir"`
	CacheMaxAge time.Duration `koanf:"cache_max_age"` // zero disables expiry
	Workers     int           `koanf:"workers"`
}

// rawBytesProvider serves the embedded defaults to koanf.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the configuration for the project in dir. explicitPath, when
// not empty, names the config file and must exist; otherwise FileNames are
// probed in dir. Relative paths in the result are resolved against the
// directory of the config file, or dir when there is none.
func Load(dir, explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	computed := map[string]interface{}{
		"format.workers": runtime.NumCPU(),
	}
	if err := k.Load(confmap.Provider(computed, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load computed defaults: %w", err)
	}

	path, err := findFile(dir, explicitPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Path = path
	root := dir
	if path != "" {
		root = filepath.Dir(path)
	}
	if err := cfg.resolve(root); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps RSX_FORMAT_CACHE_DIR to format.cache_dir. Only the first
// underscore separates the section so keys may hold underscores.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
}

func findFile(dir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func (c *Config) resolve(root string) error {
	if c.Render.MaxDepth <= 0 {
		return fmt.Errorf("render.max_depth must be positive, got %d", c.Render.MaxDepth)
	}
	if c.Format.CacheMaxAge < 0 {
		return fmt.Errorf("format.cache_max_age must not be negative, got %s", c.Format.CacheMaxAge)
	}
	if c.Format.Workers <= 0 {
		c.Format.Workers = 1
	}
	for i, ext := range c.Format.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Format.Extensions[i] = "." + ext
		}
	}
	for i, p := range c.Schema.Extensions {
		c.Schema.Extensions[i] = abs(root, p)
	}
	c.Application.OutDir = abs(root, c.Application.OutDir)
	if c.Format.CacheDir != "" {
		c.Format.CacheDir = abs(root, c.Format.CacheDir)
	}
	return nil
}

func abs(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Write creates a config file with the default content at path. It fails
// when the file already exists.
func Write(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(defaultConfig); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
