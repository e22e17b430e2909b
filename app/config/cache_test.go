package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestRunLoadsConfigs(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "hackernews.yml", `
title: "Hacker News"
url: "https://hnrss.org/frontpage"
type: realtime
settings:
  ttl: 300
`)
	writeConfigFile(t, dir, "reddit.yml", `
settings:
  disabled: true
`)

	cc := NewCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cc.GetConfigCount() != 2 {
		t.Errorf("expected 2 configs, got %d", cc.GetConfigCount())
	}

	cfg, ok := cc.GetConfig("hackernews")
	if !ok {
		t.Fatal("expected hackernews config to be loaded")
	}
	if cfg.Title != "Hacker News" {
		t.Errorf("expected title 'Hacker News', got %q", cfg.Title)
	}
	if cfg.Settings.TTL != 300 {
		t.Errorf("expected TTL 300, got %d", cfg.Settings.TTL)
	}
	if cfg.Settings.MaxItems != 30 {
		t.Errorf("expected default max items 30, got %d", cfg.Settings.MaxItems)
	}

	cfg, ok = cc.GetConfig("reddit")
	if !ok {
		t.Fatal("expected reddit config to be loaded")
	}
	if !cfg.Settings.Disabled {
		t.Error("expected reddit to be disabled")
	}
	if cfg.Settings.TTL != 0 {
		t.Errorf("expected omitted TTL to stay 0, got %d", cfg.Settings.TTL)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	cc := NewCache("/nonexistent/path")
	if err := cc.Run(); err != nil {
		t.Errorf("expected no error for missing directory, got %v", err)
	}
	if cc.GetConfigCount() != 0 {
		t.Errorf("expected 0 configs, got %d", cc.GetConfigCount())
	}
}

func TestLoadConfigInvalidType(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "bad.yml", `
type: trending
`)

	cc := NewCache(dir)
	if err := cc.Run(); err == nil {
		t.Error("expected error for invalid source type")
	}
}

func TestLoadConfigURLRequiresTitle(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "feed.yml", `
url: "https://example.com/rss"
`)

	cc := NewCache(dir)
	if err := cc.Run(); err == nil {
		t.Error("expected error for RSS declaration without title")
	}
}

func TestGetConfigsReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "a.yml", `
settings:
  ttl: 120
`)

	cc := NewCache(dir)
	if err := cc.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	configs := cc.GetConfigs()
	delete(configs, "a")

	if cc.GetConfigCount() != 1 {
		t.Error("deleting from returned map should not affect cache")
	}
}
