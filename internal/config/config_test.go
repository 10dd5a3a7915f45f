package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfigDefaults tests that defaults match documented values.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.MaxRedirects != DefaultMaxRedirects {
		t.Errorf("expected %d redirects, got %d", DefaultMaxRedirects, cfg.MaxRedirects)
	}
	if cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected body size %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
	}
	if cfg.UserAgent == "" {
		t.Error("expected non-empty default user agent")
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("expected batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
}

// TestConfigValidate tests the validation rules.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"https://example.com"}
		return cfg
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(_ *Config) {}, false},
		{"no targets", func(c *Config) { c.Targets = nil }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative redirects", func(c *Config) { c.MaxRedirects = -1 }, true},
		{"zero body size", func(c *Config) { c.MaxBodySize = 0 }, true},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"json and markdown", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

// TestLoadConfigFile tests YAML loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != ErrConfigNotFound {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("overrides are applied", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".webshepherd")
		content := "timeout: 30s\nmax_redirects: 2\nuser_agent: test-agent\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		cfg := NewConfig()
		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("failed to apply config: %v", err)
		}

		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
		}
		if cfg.MaxRedirects != 2 {
			t.Errorf("expected 2 redirects, got %d", cfg.MaxRedirects)
		}
		if cfg.UserAgent != "test-agent" {
			t.Errorf("expected test-agent, got %q", cfg.UserAgent)
		}
		// Untouched fields keep defaults.
		if cfg.MaxBodySize != DefaultMaxBodySize {
			t.Errorf("expected default body size, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("invalid timeout is reported", func(t *testing.T) {
		t.Parallel()

		cf := &File{Timeout: "not-a-duration"}
		if err := cf.Apply(NewConfig()); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("invalid yaml is reported", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".webshepherd")
		if err := os.WriteFile(path, []byte("timeout: [broken"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}
