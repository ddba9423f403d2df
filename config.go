package htmlview

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes where views live.
//
//	base_dir: ./app
//	views_dir: Views
type Config struct {
	BaseDir  string `yaml:"base_dir"`
	ViewsDir string `yaml:"views_dir"`
}

// LoadConfig decodes a YAML config from r. Missing fields take their defaults.
// An empty document yields the default config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("htmlview: config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	c.BaseDir = strings.TrimSpace(c.BaseDir)
	c.ViewsDir = strings.TrimSpace(c.ViewsDir)
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.ViewsDir == "" {
		c.ViewsDir = DefaultRoot
	}
}

// Validate checks that ViewsDir is a relative slash separated directory.
func (c Config) Validate() error {
	dir := path.Clean(c.ViewsDir)
	if !isRelativePath(dir) {
		return fmt.Errorf("htmlview: config: %w: views_dir %q", ErrInvalidInput, c.ViewsDir)
	}
	return nil
}

// Views builds the views described by c.
func (c Config) Views(logger *slog.Logger) *Views {
	c.setDefaults()
	v := New(c.BaseDir)
	v.Root = path.Clean(c.ViewsDir)
	v.Logger = logger
	return v
}
