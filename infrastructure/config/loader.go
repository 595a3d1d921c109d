package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"vidtowav/domain/conversion"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its config when --config is not given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Conversion ConversionConfig `yaml:"conversion"`
	Logging    LoggingConfig    `yaml:"logging"`
	History    HistoryConfig    `yaml:"history"`
	Google     GoogleConfig     `yaml:"google"`
}

// PathsConfig contains the input and output roots
type PathsConfig struct {
	InputDirectory  string `yaml:"input_directory"`
	OutputDirectory string `yaml:"output_directory,omitempty"`
}

// ConversionConfig contains the per-run conversion settings
type ConversionConfig struct {
	Format     string        `yaml:"format"`
	Quality    *int          `yaml:"quality,omitempty"`
	Recursive  bool          `yaml:"recursive"`
	Overwrite  bool          `yaml:"overwrite"`
	Extensions []string      `yaml:"extensions"`
	ItemPause  time.Duration `yaml:"item_pause,omitempty"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// HistoryConfig locates the run history database
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id,omitempty"`
	SharePublicly   bool   `yaml:"share_publicly"`
}

// Default returns a configuration with every default filled in
func Default() *Config {
	cfg := &Config{}
	cfg.Conversion.Recursive = true
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values left by a partial config file
func (c *Config) ApplyDefaults() {
	if c.Conversion.Format == "" {
		c.Conversion.Format = string(conversion.DefaultFormat)
	}
	if c.Conversion.Quality == nil {
		q := conversion.DefaultQuality
		c.Conversion.Quality = &q
	}
	if c.Conversion.Extensions == nil {
		c.Conversion.Extensions = append([]string(nil), conversion.DefaultExtensions...)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.History.Path == "" {
		c.History.Path = "vidtowav.db"
	}
	if c.Google.CredentialsFile == "" {
		c.Google.CredentialsFile = "credentials.json"
	}
	if c.Google.TokenFile == "" {
		c.Google.TokenFile = "token.json"
	}
}

// QualityLevel returns the configured quality, or the default when unset
func (c *Config) QualityLevel() int {
	if c.Conversion.Quality == nil {
		return conversion.DefaultQuality
	}
	return *c.Conversion.Quality
}

// Request builds a normalized conversion request from the config.
// The caller may adjust it before validation.
func (c *Config) Request() *conversion.Request {
	req := &conversion.Request{
		SourceRoot:      c.Paths.InputDirectory,
		DestinationRoot: c.Paths.OutputDirectory,
		Recursive:       c.Conversion.Recursive,
		Overwrite:       c.Conversion.Overwrite,
		Format:          conversion.FormatID(c.Conversion.Format),
		Quality:         c.QualityLevel(),
		Extensions:      conversion.NewExtensionSet(c.Conversion.Extensions...),
	}
	req.Normalize()
	return req
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
