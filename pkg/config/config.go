// Package config loads filetier configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gplima89/filetier/pkg/costmodel"
	"github.com/gplima89/filetier/pkg/ingest"
	"github.com/gplima89/filetier/pkg/models"
)

// Config holds all filetier configuration.
type Config struct {
	DBPath        string          `yaml:"db_path"`
	WindowDays    int             `yaml:"window_days"`
	MetadataRatio float64         `yaml:"metadata_ratio"`
	Pricing       PricingConfig   `yaml:"pricing"`
	Ingestion     ingest.Config   `yaml:"ingestion"`
	Scan          ScanConfig      `yaml:"scan"`
	Accounts      []AccountConfig `yaml:"accounts"`
}

// PricingConfig points at the retail price catalog. An empty endpoint
// selects the public catalog.
type PricingConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// ScanConfig tunes inventory scans.
type ScanConfig struct {
	BatchSize       int      `yaml:"batch_size"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// AccountConfig describes one storage account to analyze.
type AccountConfig struct {
	Name       string            `yaml:"name"`
	Region     string            `yaml:"region"`
	Redundancy models.Redundancy `yaml:"redundancy"`
	Shares     []ShareConfig     `yaml:"shares"`
}

// ShareConfig describes one file share. MountPath, when set, lets the
// scanner inventory the share through its local SMB mount.
type ShareConfig struct {
	Name        string             `yaml:"name"`
	CurrentTier models.StorageTier `yaml:"current_tier"`
	QuotaGiB    float64            `yaml:"quota_gib"`
	Premium     bool               `yaml:"premium"`
	MountPath   string             `yaml:"mount_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath:        "filetier.db",
		WindowDays:    30,
		MetadataRatio: costmodel.DefaultMetadataRatio,
		Scan: ScanConfig{
			BatchSize:       500,
			ExcludePatterns: []string{"*.tmp", "~$*", ".DS_Store", "Thumbs.db"},
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.WindowDays < 1 {
		return nil, fmt.Errorf("window_days must be at least 1, got %d", cfg.WindowDays)
	}

	return cfg, nil
}
