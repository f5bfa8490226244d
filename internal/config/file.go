package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/mateconpizza/gp/internal/ui/menu"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileExists   = errors.New("config file already exists")
	ErrInvalidWorkers     = errors.New("workers must be greater than zero")
)

// ConfigFile represents the configuration file.
type ConfigFile struct {
	Database string      `yaml:"database"` // Database name
	Workers  int         `yaml:"workers"`  // Concurrent requests in serve mode
	Menu     menu.Config `yaml:"menu"`     // Prompt picker
}

// Defaults holds the default configuration.
var Defaults = &ConfigFile{
	Database: DefaultDBName,
	Workers:  DefaultWorkers,
	Menu:     menu.DefaultConfig,
}

// Validate fills blank fields with their defaults and rejects bad values.
func Validate(cfg *ConfigFile) error {
	if cfg.Database == "" {
		slog.Warn("empty database name, loading default", "name", DefaultDBName)
		cfg.Database = DefaultDBName
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}

	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}

	if err := cfg.Menu.Validate(); err != nil {
		return fmt.Errorf("menu: %w", err)
	}

	return nil
}

// ReadFile loads and validates the config file at p.
func ReadFile(p string) (*ConfigFile, error) {
	content, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrConfigFileNotFound, p)
		}

		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &ConfigFile{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	slog.Debug("loaded config file", "path", p)

	return cfg, nil
}

// WriteFile dumps cfg as YAML to p.
func WriteFile(p string, cfg *ConfigFile, force bool) error {
	if _, err := os.Stat(p); err == nil && !force {
		return fmt.Errorf("%q %w", p, ErrConfigFileExists)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating config path: %w", err)
	}

	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Load applies the config file at p over App and the menu. A missing file
// keeps the defaults.
func Load(p string) error {
	cfg, err := ReadFile(p)
	if err != nil {
		if errors.Is(err, ErrConfigFileNotFound) {
			slog.Debug("config file not found, loading defaults", "path", p)
			return nil
		}

		return err
	}

	App.DBName = EnsureDBSuffix(cfg.Database)
	App.Workers = cfg.Workers

	return menu.SetConfig(cfg.Menu)
}
