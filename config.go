// Package bemselector holds the configuration shared by the bemselector
// command and its case documents.
package bemselector

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/bemselector/bem"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = "bemselector.yaml"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// Config represents the bemselector configuration
type Config struct {
	Separators bem.Separators `yaml:"separators"`
	Output     OutputConfig   `yaml:"output"`
	// Cases lists case documents or directories verified when none are given.
	Cases []string `yaml:"cases"`
}

// OutputConfig represents report output settings
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  *bool  `yaml:"color"` // Pointer to distinguish between unset and false
}

// ColorEnabled returns true unless color is explicitly disabled
func (o OutputConfig) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables
	expandConfigEnvVars(&config)

	// Apply defaults for missing values
	applyDefaults(&config)

	// Validate the configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ValidateConfig validates the configuration for common errors and inconsistencies
func ValidateConfig(config *Config) error {
	if err := config.Separators.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	if err := ValidateFormat(config.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %w", ErrConfigValidation, err)
	}

	return nil
}

// ValidateFormat checks an output format name
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatXML:
		return nil
	}
	return fmt.Errorf("%w '%s': must be one of text, json, yaml, xml", ErrUnknownFormat, format)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Separators: bem.DefaultSeparators(),
		Output: OutputConfig{
			Format: FormatText,
		},
		Cases: []string{},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	config.Separators = config.Separators.WithDefaults()

	if config.Output.Format == "" {
		config.Output.Format = FormatText
	}

	if config.Cases == nil {
		config.Cases = []string{}
	}
}

// loadEnvFiles loads .env and .env.local if they exist; .env.local wins
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	if fileExists(".env.local") {
		err := godotenv.Overload(".env.local")
		if err != nil {
			return fmt.Errorf("failed to load .env.local file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in paths and the output format.
// Separators are taken literally.
func expandConfigEnvVars(config *Config) {
	for i, path := range config.Cases {
		config.Cases[i] = expandEnvVars(path)
	}

	config.Output.Format = expandEnvVars(config.Output.Format)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
