// Package config loads the optional kirlent.yaml file.
//
// The file carries per-writer option defaults and preview server settings:
//
//	strict: false
//	writers:
//	  slides:   {slide_size: a4, font_size: 0}
//	  revealjs: {transition: fade, center_vertical: true}
//	preview:
//	  addr: 127.0.0.1:8000
//	  debounce: 300ms
//
// Environment variables are expanded in the file contents after .env files
// have been loaded.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/settings"
)

const (
	// EnvConfigPath names a config file when --config is not given.
	EnvConfigPath = "KIRLENT_CONFIG"
	// DefaultFileName is looked up in the working directory.
	DefaultFileName = "kirlent.yaml"

	defaultPreviewAddr     = "127.0.0.1:8000"
	defaultPreviewDebounce = 300 * time.Millisecond
	defaultPreviewWriter   = "slides"
)

// Config represents the kirlent configuration file.
type Config struct {
	// Strict turns unknown option names under writers into errors.
	Strict  bool                      `yaml:"strict"`
	Writers map[string]map[string]any `yaml:"writers,omitempty"`
	Preview PreviewConfig             `yaml:"preview"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `yaml:"-"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Addr     string        `yaml:"addr"`
	Debounce time.Duration `yaml:"debounce"`
	Writer   string        `yaml:"writer"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Locate picks the configuration file: the explicit path, then
// $KIRLENT_CONFIG, then kirlent.yaml in the working directory if it exists.
// An empty result means no file.
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	if info, err := os.Stat(DefaultFileName); err == nil && !info.IsDir() {
		return DefaultFileName
	}
	return ""
}

// Load loads configuration from path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(fmt.Sprintf("configuration file not found: %s", path)).
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes configuration YAML. Unknown top-level and preview keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Preview.Addr == "" {
		c.Preview.Addr = defaultPreviewAddr
	}
	if c.Preview.Debounce == 0 {
		c.Preview.Debounce = defaultPreviewDebounce
	}
	if c.Preview.Writer == "" {
		c.Preview.Writer = defaultPreviewWriter
	}
}

func (c *Config) validate() error {
	if c.Preview.Debounce < 0 {
		return errors.ConfigError(fmt.Sprintf("preview.debounce must not be negative: %s", c.Preview.Debounce)).
			WithContext("option", "preview.debounce").
			Build()
	}
	for name, values := range c.Writers {
		for key, v := range values {
			if v == nil {
				return errors.ConfigError(fmt.Sprintf("writers.%s.%s has no value", name, key)).
					WithContext("option", key).
					Build()
			}
		}
	}
	return nil
}

// WriterDefaults returns the configured option defaults for a writer.
func (c *Config) WriterDefaults(name string) map[string]any {
	if c == nil {
		return nil
	}
	return c.Writers[name]
}

// Mode is the resolution mode for writer defaults.
func (c *Config) Mode() settings.Mode {
	if c != nil && c.Strict {
		return settings.Strict
	}
	return settings.Lenient
}
