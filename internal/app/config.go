package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration constants
const (
	DefaultOutputDir     = "./logs"
	DefaultStationTTL    = 5 * time.Minute
	DefaultStatsInterval = 30 * time.Second
	DefaultLogMaxSizeMB  = 25
	DefaultLogMaxAgeDays = 7
	DefaultLogMaxBackups = 5
)

// LogConfig controls the application log file. An empty Directory keeps
// logging on the console only.
type LogConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// Config holds application configuration
type Config struct {
	Input         string        `yaml:"input"`
	OutputDir     string        `yaml:"outputDir"` // empty disables the listing file
	Hex           bool          `yaml:"hex"`
	RotateUTC     bool          `yaml:"rotateUTC"`
	StrictLength  bool          `yaml:"strictLength"`
	StationTTL    time.Duration `yaml:"stationTTL"`
	StatsInterval time.Duration `yaml:"statsInterval"`
	Verbose       bool          `yaml:"verbose"`
	Logs          LogConfig     `yaml:"logs"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		OutputDir:     DefaultOutputDir,
		RotateUTC:     true,
		StrictLength:  true,
		StationTTL:    DefaultStationTTL,
		StatsInterval: DefaultStatsInterval,
		Logs: LogConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxAgeDays: DefaultLogMaxAgeDays,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults. Relative
// paths in the file are resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	resolve := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	cfg.Input = resolve(cfg.Input)
	cfg.OutputDir = resolve(cfg.OutputDir)
	cfg.Logs.Directory = resolve(cfg.Logs.Directory)

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.StationTTL <= 0 {
		c.StationTTL = DefaultStationTTL
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = DefaultStatsInterval
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = DefaultLogMaxAgeDays
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = DefaultLogMaxBackups
	}
}
