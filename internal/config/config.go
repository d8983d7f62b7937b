package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the cloudcover tools.
type Config struct {
	Merge   Merge   `yaml:"merge"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

// Merge controls where the merger reads and writes, and the row filter.
type Merge struct {
	InputFolder       string  `yaml:"input_folder"`
	OutputFile        string  `yaml:"output_file"`
	Workers           int     `yaml:"workers"`
	SmallMinPixels    float64 `yaml:"small_min_pixels"`
	LargeMinPixels    float64 `yaml:"large_min_pixels"`
	MaxStartTimeRange int64   `yaml:"max_start_time_range"` // ms
	PreviewRows       int     `yaml:"preview_rows"`
}

// Storage holds the optional sinks written alongside the CSV output. Empty
// paths disable the sink.
type Storage struct {
	ParquetPath string `yaml:"parquet_path"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

const (
	DefaultInputFolder = "data/processed/s2_cloud_cover_tables"
	DefaultOutputFile  = "data/processed/s2_cloud_cover_table_small_and_large.csv"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Merge: Merge{
			InputFolder:       DefaultInputFolder,
			OutputFile:        DefaultOutputFile,
			Workers:           4,
			SmallMinPixels:    1.25e7,
			LargeMinPixels:    1.63e8,
			MaxStartTimeRange: 60000,
			PreviewRows:       5,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path on top of the
// defaults, then applies environment variable overrides. Keys absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the defaults (plus
// environment overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return cfg, err
}

// Validate rejects settings the merger cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Merge.InputFolder == "":
		return errors.New("merge.input_folder is empty")
	case c.Merge.OutputFile == "":
		return errors.New("merge.output_file is empty")
	case c.Merge.Workers <= 0:
		return fmt.Errorf("merge.workers must be positive, got %d", c.Merge.Workers)
	case c.Merge.SmallMinPixels <= 0:
		return fmt.Errorf("merge.small_min_pixels must be positive, got %g", c.Merge.SmallMinPixels)
	case c.Merge.LargeMinPixels <= 0:
		return fmt.Errorf("merge.large_min_pixels must be positive, got %g", c.Merge.LargeMinPixels)
	case c.Merge.MaxStartTimeRange < 0:
		return fmt.Errorf("merge.max_start_time_range must not be negative, got %d", c.Merge.MaxStartTimeRange)
	case c.Merge.PreviewRows < 0:
		return fmt.Errorf("merge.preview_rows must not be negative, got %d", c.Merge.PreviewRows)
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLOUDCOVER_INPUT_FOLDER"); v != "" {
		cfg.Merge.InputFolder = v
	}
	if v := os.Getenv("CLOUDCOVER_OUTPUT_FILE"); v != "" {
		cfg.Merge.OutputFile = v
	}

	if v := os.Getenv("CLOUDCOVER_PARQUET_PATH"); v != "" {
		cfg.Storage.ParquetPath = v
	}
	if v := os.Getenv("CLOUDCOVER_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
