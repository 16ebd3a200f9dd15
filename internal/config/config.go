package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Period identifies one monthly source file.
type Period struct {
	Name     string `yaml:"name" validate:"required"`
	FileName string `yaml:"file_name" validate:"required"`
}

// PathsConfig contains the directory layout of the pipeline. RawDir,
// StagingDir and WarehouseDir default to subdirectories of DataDir.
// Defaults live in applyDefaults rather than envconfig default tags so that
// YAML values survive the environment-override pass.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	StagingDir   string `yaml:"staging_dir" envconfig:"STAGING_DIR"`
	WarehouseDir string `yaml:"warehouse_dir" envconfig:"WAREHOUSE_DIR"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Config is the complete pipeline configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Periods []Period      `yaml:"periods" validate:"min=1,dive"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// DefaultPeriods is the fixed period list of the current dataset drop:
// January through March 2025.
func DefaultPeriods() []Period {
	return []Period{
		{Name: "2025-01", FileName: "01_Exportaciones_2025_Enero.xlsx"},
		{Name: "2025-02", FileName: "02_Exportaciones_2025_Febrero.xlsx"},
		{Name: "2025-03", FileName: "03_Exportaciones_2025_Marzo.xlsx"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// EXPORTDW_* environment overrides, in that precedence order. A non-empty
// dataDir replaces the whole directory layout with the standard raw/,
// staging/ and dw/ subdirectories of that directory.
func Load(configFile, dataDir string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("EXPORTDW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			// Env overrides win over file values.
			if err := envconfig.Process("EXPORTDW", &cfg); err != nil {
				return nil, fmt.Errorf("failed to apply env overrides: %w", err)
			}
		}
	}

	if dataDir != "" {
		cfg.Paths = PathsConfig{DataDir: dataDir}
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) applyDefaults() {
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = "data"
	}
	if c.Paths.RawDir == "" {
		c.Paths.RawDir = filepath.Join(c.Paths.DataDir, "raw")
	}
	if c.Paths.StagingDir == "" {
		c.Paths.StagingDir = filepath.Join(c.Paths.DataDir, "staging")
	}
	if c.Paths.WarehouseDir == "" {
		c.Paths.WarehouseDir = filepath.Join(c.Paths.DataDir, "dw")
	}
	if len(c.Periods) == 0 {
		c.Periods = DefaultPeriods()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/pipeline.log"
	}
}

func (c *Config) validate() error {
	return validator.New().Struct(c)
}

// EnsureDirectories creates the staging and warehouse directories. The raw
// directory is deliberately not created: its absence just means every period
// file is missing, which the ingest stage reports per period.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.WarehouseDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RawFilePath returns the source spreadsheet path for a period.
func (c *Config) RawFilePath(p Period) string {
	return filepath.Join(c.Paths.RawDir, p.Name, p.FileName)
}

// StagingFilePath returns the cleaned-snapshot path for a period.
func (c *Config) StagingFilePath(p Period) string {
	return filepath.Join(c.Paths.StagingDir, fmt.Sprintf(StagingFilePattern, p.Name))
}

// CorePath returns the integrated parquet snapshot path.
func (c *Config) CorePath() string {
	return filepath.Join(c.Paths.WarehouseDir, CoreFileName)
}

// WarehousePath returns the embedded database path.
func (c *Config) WarehousePath() string {
	return filepath.Join(c.Paths.WarehouseDir, WarehouseFileName)
}
