package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "./data/howmuchah.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("Log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ParseStrategy != "structured" {
		t.Errorf("ParseStrategy = %q, want structured", cfg.ParseStrategy)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "addr: \":9999\"\nlog_level: debug\nparse_strategy: singlepass\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ParseStrategy != "singlepass" {
		t.Errorf("ParseStrategy = %q, want singlepass", cfg.ParseStrategy)
	}
	// Unset keys still get defaults.
	if cfg.DBPath != "./data/howmuchah.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoadMissingFileIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9999\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv("ADDR", ":7777")
	t.Setenv("PARSE_STRATEGY", "singlepass")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":7777" {
		t.Errorf("Addr = %q, want env override :7777", cfg.Addr)
	}
	if cfg.ParseStrategy != "singlepass" {
		t.Errorf("ParseStrategy = %q, want singlepass", cfg.ParseStrategy)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for unknown log level")
	}

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("PARSE_STRATEGY", "guesswork")
	if _, err := Load(""); err == nil {
		t.Error("Expected error for unknown parse strategy")
	}
}
