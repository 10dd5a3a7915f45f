package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".webshepherd"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration shape. All fields are optional;
// unset fields keep their defaults.
type File struct {
	// Timeout is the fetch timeout, in Go duration syntax (e.g. "15s").
	Timeout string `yaml:"timeout"`

	// MaxRedirects overrides the redirect hop limit.
	MaxRedirects *int `yaml:"max_redirects"`

	// MaxBodySize overrides the body size limit in bytes.
	MaxBodySize *int64 `yaml:"max_body_size"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// BatchSize overrides the concurrent scan limit.
	BatchSize *int `yaml:"batch_size"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"db_dir"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply merges file overrides into the config. Invalid duration strings
// are reported rather than silently ignored.
func (f *File) Apply(cfg *Config) error {
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if f.MaxRedirects != nil {
		cfg.MaxRedirects = *f.MaxRedirects
	}
	if f.MaxBodySize != nil {
		cfg.MaxBodySize = *f.MaxBodySize
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.BatchSize != nil {
		cfg.BatchSize = *f.BatchSize
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	return nil
}

// FindConfigFile searches for the configuration file in order:
// 1. the explicit path, if given
// 2. .webshepherd in the current directory
// 3. .webshepherd in the user's home directory
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
