package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d, want 5", cfg.PollIntervalSeconds)
	}
	if cfg.GPUResolver != "auto" {
		t.Errorf("GPUResolver = %q, want auto", cfg.GPUResolver)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("log defaults = %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")

	cfg := Default()
	cfg.AgentID = "agent-123"
	cfg.ServerURL = "https://procscope.example.com"
	cfg.AuthToken = "secret"
	cfg.PollIntervalSeconds = 30
	cfg.GPUResolver = "off"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config perms = %o, want 0600 (contains auth token)", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.AgentID != "agent-123" || loaded.ServerURL != "https://procscope.example.com" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.AuthToken != "secret" {
		t.Errorf("AuthToken = %q", loaded.AuthToken)
	}
	if loaded.PollIntervalSeconds != 30 || loaded.GPUResolver != "off" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no file should fall back to defaults: %v", err)
	}
	if cfg.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d, want default 5", cfg.PollIntervalSeconds)
	}
}
