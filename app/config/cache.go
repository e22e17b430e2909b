package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache loads and holds per-source configuration files from the
// sources directory. A missing directory is not an error: every
// built-in source then runs with its defaults.
type Cache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewCache(sourcesDir string) *Cache {
	return &Cache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (cc *Cache) Run() error {
	if _, err := os.Stat(cc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		cfg, err := cc.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "disabled", cfg.Settings.Disabled, "ttl", cfg.Settings.TTL)
	}

	return nil
}

func (cc *Cache) LoadConfig(sourceName string) (*Config, error) {
	configFile := filepath.Join(cc.sourcesDir, sourceName+".yml")

	cfg, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}
	cfg.Name = sourceName

	if err := cc.validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[cfg.Name] = cfg

	return cfg, nil
}

func (cc *Cache) GetConfig(sourceName string) (*Config, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	cfg, ok := cc.cache[sourceName]
	return cfg, ok
}

func (cc *Cache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *Cache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *Cache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// TTL stays 0 when omitted: a zero TTL keeps the source's own
	// default, so an override file that only sets a title does not
	// disturb a builtin's refresh cadence.
	if cfg.Settings.MaxItems == 0 {
		cfg.Settings.MaxItems = 30
	}

	return &cfg, nil
}

func (cc *Cache) validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Name == "" {
		return fmt.Errorf("source name is required")
	}

	if cfg.Settings.TTL < 0 {
		return fmt.Errorf("ttl must be non-negative")
	}
	if cfg.Settings.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}

	switch cfg.Type {
	case "", "hottest", "realtime":
	default:
		return fmt.Errorf("invalid source type: %s", cfg.Type)
	}

	// A declared RSS source needs a title for the column UI.
	if cfg.URL != "" && cfg.Title == "" {
		return fmt.Errorf("title is required for RSS source declarations")
	}

	return nil
}
