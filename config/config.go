// Package config loads pyfront settings from a .pyfront.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/pyfront/python/parser"
)

// FileName is the settings file looked up by Load.
const FileName = ".pyfront.yaml"

// Config holds the settings a run of pyfront uses. Zero values mean the
// parser defaults apply.
type Config struct {
	// Path is the file the settings came from, empty for defaults.
	Path string `yaml:"-"`
	// RootDir is the directory holding the settings file, or the directory
	// the lookup started from.
	RootDir string `yaml:"-"`

	TabWidth       int      `yaml:"tab_width"`
	Comments       bool     `yaml:"comments"`
	MaxItems       *int     `yaml:"max_items"`
	Format         string   `yaml:"format"`
	RecoveryRounds *int     `yaml:"recovery_rounds"`
	Exclude        []string `yaml:"exclude"`
}

// Default returns the settings used when no file is found.
func Default(rootDir string) *Config {
	return &Config{RootDir: rootDir, Format: "sexp"}
}

// Load looks for FileName in the current directory and its parents.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom looks for FileName in dir and its parents. Finding none is not
// an error.
func LoadFrom(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for d := abs; ; d = filepath.Dir(d) {
		path := filepath.Join(d, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
		if filepath.Dir(d) == d {
			break
		}
	}
	return Default(abs), nil
}

// LoadFile reads settings from path. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default(filepath.Dir(path))
	cfg.Path = path

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TabWidth < 0 {
		return fmt.Errorf("tab_width must be positive, got %d", c.TabWidth)
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		return fmt.Errorf("max_items must not be negative, got %d", *c.MaxItems)
	}
	if c.RecoveryRounds != nil && *c.RecoveryRounds < 0 {
		return fmt.Errorf("recovery_rounds must not be negative, got %d", *c.RecoveryRounds)
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// ParserOptions turns the settings into parser options.
func (c *Config) ParserOptions() []parser.Option {
	var opts []parser.Option
	if c.TabWidth > 0 {
		opts = append(opts, parser.WithTabWidth(c.TabWidth))
	}
	if c.Comments {
		opts = append(opts, parser.WithComments(true))
	}
	if c.MaxItems != nil {
		opts = append(opts, parser.WithMaxItems(*c.MaxItems))
	}
	if c.RecoveryRounds != nil {
		opts = append(opts, parser.WithRecoveryRounds(*c.RecoveryRounds))
	}
	return opts
}

// Excluded reports whether a file or directory name matches an exclude
// pattern.
func (c *Config) Excluded(name string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// PythonFiles returns the .py files under dir, skipping hidden and
// excluded directories.
func (c *Config) PythonFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || c.Excluded(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".py") && !c.Excluded(name) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan python files in %s: %w", dir, err)
	}
	return files, nil
}
