package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Preflight PreflightConfig `yaml:"preflight"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Upload    UploadConfig    `yaml:"upload"`
	History   HistoryConfig   `yaml:"history"`
	Batch     BatchConfig     `yaml:"batch"`
}

type PathsConfig struct {
	VideosRoot string `yaml:"videos_root"`
}

type PreflightConfig struct {
	MinSizeBytes       int64   `yaml:"min_size_bytes"`
	MtimeCooldownSec   int     `yaml:"mtime_cooldown_sec"`
	MinDurationSec     float64 `yaml:"min_duration_sec"`
	MaxDurationSec     float64 `yaml:"max_duration_sec"`
	MinWidth           int     `yaml:"min_width"`
	MinHeight          int     `yaml:"min_height"`
	BlackdetectEnabled bool    `yaml:"blackdetect_enabled"`
	BlackdetectMinSec  float64 `yaml:"blackdetect_min_sec"`
}

type MetadataConfig struct {
	TitleMaxChars       int `yaml:"title_max_chars"`
	DescriptionMaxChars int `yaml:"description_max_chars"`
	TagsMax             int `yaml:"tags_max"`
}

type UploadConfig struct {
	CategoryID        string  `yaml:"category_id"`
	Privacy           string  `yaml:"privacy"`
	MadeForKids       bool    `yaml:"made_for_kids"`
	NotifySubscribers bool    `yaml:"notify_subscribers"`
	MaxAttempts       int     `yaml:"max_attempts"`
	RetryBaseDelaySec float64 `yaml:"retry_base_delay_sec"`
	ThrottleSec       float64 `yaml:"throttle_sec"`
}

type HistoryConfig struct {
	RecentTitles int64 `yaml:"recent_titles"`
}

type BatchConfig struct {
	ScanFactor int `yaml:"scan_factor"`
}

// Default returns the built-in configuration. Every value can be overridden
// from the YAML file; the tool runs without one.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			VideosRoot: "videos",
		},
		Preflight: PreflightConfig{
			MinSizeBytes:       1_000_000,
			MtimeCooldownSec:   30,
			MinDurationSec:     8,
			MaxDurationSec:     60,
			MinWidth:           720,
			MinHeight:          1280,
			BlackdetectEnabled: false,
			BlackdetectMinSec:  0.5,
		},
		Metadata: MetadataConfig{
			TitleMaxChars:       100,
			DescriptionMaxChars: 4900,
			TagsMax:             10,
		},
		Upload: UploadConfig{
			CategoryID:        "22",
			Privacy:           "public",
			MadeForKids:       false,
			NotifySubscribers: false,
			MaxAttempts:       3,
			RetryBaseDelaySec: 1.5,
			ThrottleSec:       1.2,
		},
		History: HistoryConfig{
			RecentTitles: 50,
		},
		Batch: BatchConfig{
			ScanFactor: 10,
		},
	}
}

// Load reads the YAML config at path on top of the defaults. A missing file
// is not an error — the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
