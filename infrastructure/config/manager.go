package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"vidtowav/domain/conversion"
)

// Errors for config management
var (
	ErrDuplicateExtension = errors.New("extension already configured")
	ErrExtensionNotFound  = errors.New("extension not configured")
	ErrInvalidExtension   = errors.New("invalid extension")
	ErrInvalidQuality     = errors.New("quality must be between 0 and 4")
	ErrNotADirectory      = errors.New("not a directory")
)

// ConfigManager provides CRUD operations for config entries
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Config returns the managed configuration
func (m *ConfigManager) Config() *Config {
	return m.config
}

// --- Extension CRUD ---

// AddExtension adds an accepted input extension
func (m *ConfigManager) AddExtension(ext string) error {
	norm := conversion.NormalizeExtension(ext)
	if norm == "" || strings.ContainsAny(norm[1:], `./\`) {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	for _, existing := range m.config.Conversion.Extensions {
		if conversion.NormalizeExtension(existing) == norm {
			return fmt.Errorf("%w: %q", ErrDuplicateExtension, norm)
		}
	}

	m.config.Conversion.Extensions = append(m.config.Conversion.Extensions, norm)
	return Save(m.config, m.configPath)
}

// RemoveExtension removes an accepted input extension
func (m *ConfigManager) RemoveExtension(ext string) error {
	norm := conversion.NormalizeExtension(ext)
	for i, existing := range m.config.Conversion.Extensions {
		if conversion.NormalizeExtension(existing) == norm {
			m.config.Conversion.Extensions = append(
				m.config.Conversion.Extensions[:i],
				m.config.Conversion.Extensions[i+1:]...,
			)
			return Save(m.config, m.configPath)
		}
	}
	return fmt.Errorf("%w: %q", ErrExtensionNotFound, norm)
}

// ListExtensions returns the accepted extensions, sorted
func (m *ConfigManager) ListExtensions() []string {
	return conversion.NewExtensionSet(m.config.Conversion.Extensions...).List()
}

// ResetExtensions restores the default extension list
func (m *ConfigManager) ResetExtensions() error {
	m.config.Conversion.Extensions = append([]string(nil), conversion.DefaultExtensions...)
	return Save(m.config, m.configPath)
}

// --- Settings ---

// SetFormat sets the output format
func (m *ConfigManager) SetFormat(id string) error {
	id = strings.ToLower(strings.TrimSpace(id))
	if !conversion.IsKnownFormat(conversion.FormatID(id)) {
		return fmt.Errorf("%w: %q", conversion.ErrUnknownFormat, id)
	}
	m.config.Conversion.Format = id
	return Save(m.config, m.configPath)
}

// SetQuality sets the quality level
func (m *ConfigManager) SetQuality(level int) error {
	if level < conversion.MinQuality || level > conversion.MaxQuality {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, level)
	}
	m.config.Conversion.Quality = &level
	return Save(m.config, m.configPath)
}

// SetInputDirectory sets the source root. The directory must exist.
func (m *ConfigManager) SetInputDirectory(dir string) error {
	dir = strings.TrimSpace(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q", ErrNotADirectory, dir)
	}
	m.config.Paths.InputDirectory = dir
	return Save(m.config, m.configPath)
}

// SetOutputDirectory sets the destination root. Empty writes beside each source.
func (m *ConfigManager) SetOutputDirectory(dir string) error {
	m.config.Paths.OutputDirectory = strings.TrimSpace(dir)
	return Save(m.config, m.configPath)
}

// SetRecursive toggles recursive discovery
func (m *ConfigManager) SetRecursive(on bool) error {
	m.config.Conversion.Recursive = on
	return Save(m.config, m.configPath)
}

// SetOverwrite toggles overwriting existing outputs
func (m *ConfigManager) SetOverwrite(on bool) error {
	m.config.Conversion.Overwrite = on
	return Save(m.config, m.configPath)
}

// SuggestAddExtensionCommand returns the command that adds a missing extension
func SuggestAddExtensionCommand(ext string) string {
	return fmt.Sprintf("vidtowav config add extension %s", conversion.NormalizeExtension(ext))
}

// SuggestSetInputCommand returns the command that configures the source root
func SuggestSetInputCommand() string {
	return `vidtowav config set input "/path/to/videos"`
}
