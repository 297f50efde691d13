package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/taskboard/taskboard/store"
)

func TestTASKBOARD_CONFIG_EnvironmentVariable(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	configContent := `dir: /tmp/board-from-config
seed: examples
format: yaml
persist-retries: 3
addr: 0.0.0.0:9999
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Run("WithTASKBOARD_CONFIG", func(t *testing.T) {
		t.Setenv("TASKBOARD_CONFIG", configPath)

		cli := NewCLI()
		cfg, err := cli.config()
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		if cfg.Dir != "/tmp/board-from-config" {
			t.Errorf("Expected dir from config, got %q", cfg.Dir)
		}
		if cfg.Seed != store.SeedExamples {
			t.Errorf("Expected seed examples, got %s", cfg.Seed)
		}
		if cfg.Format != "yaml" {
			t.Errorf("Expected format yaml, got %q", cfg.Format)
		}
		if cfg.PersistRetries != 3 {
			t.Errorf("Expected 3 retries, got %d", cfg.PersistRetries)
		}
		if cfg.Addr != "0.0.0.0:9999" {
			t.Errorf("Expected addr from config, got %q", cfg.Addr)
		}
	})

	t.Run("EnvironmentOverridesConfig", func(t *testing.T) {
		t.Setenv("TASKBOARD_CONFIG", configPath)
		t.Setenv("TASKBOARD_FORMAT", "json")
		t.Setenv("TASKBOARD_PERSIST_RETRIES", "0")

		cfg, err := NewCLI().config()
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		if cfg.Format != "json" {
			t.Errorf("Expected env format json, got %q", cfg.Format)
		}
		if cfg.PersistRetries != 0 {
			t.Errorf("Expected env retries 0, got %d", cfg.PersistRetries)
		}
	})

	t.Run("FlagsOverrideEnvironment", func(t *testing.T) {
		t.Setenv("TASKBOARD_SEED", "examples")
		cli := NewCLI()
		if err := cli.rootCmd.PersistentFlags().Set("seed", "none"); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		cfg, err := cli.config()
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		if cfg.Seed != store.SeedNone {
			t.Errorf("Expected flag to win, got %s", cfg.Seed)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("TASKBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

		cfg, err := NewCLI().config()
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		if cfg.Seed != store.SeedNone || cfg.Format != "table" || cfg.PersistRetries != 1 || cfg.Addr != "127.0.0.1:8080" {
			t.Errorf("unexpected defaults %+v", cfg)
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		t.Setenv("TASKBOARD_SEED", "lots")
		if _, err := NewCLI().config(); err == nil {
			t.Error("expected error for unknown seed policy")
		}
	})
}
