package bemselector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/bemselector/bem"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
	err := os.WriteFile(configPath, []byte(content), 0o644)
	assert.NoError(t, err)

	return configPath
}

func TestLoadConfig_MissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.True(t, config.Output.ColorEnabled())
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
separators:
  element: "-"
  modifier: "_"
  modifier_value: "_"
output:
  format: json
  color: false
cases:
  - ./docs/cases
`)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, bem.Separators{Element: "-", Modifier: "_", ModifierValue: "_"}, config.Separators)
	assert.Equal(t, FormatJSON, config.Output.Format)
	assert.False(t, config.Output.ColorEnabled())
	assert.Equal(t, []string{"./docs/cases"}, config.Cases)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	configPath := writeConfig(t, `
separators:
  modifier: "_"
`)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, bem.Separators{Element: "__", Modifier: "_", ModifierValue: "--"}, config.Separators)
	assert.Equal(t, FormatText, config.Output.Format)
	assert.Equal(t, []string{}, config.Cases)
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("BEM_CASES", "/srv/cases")
	t.Setenv("BEM_FORMAT", "yaml")

	configPath := writeConfig(t, `
output:
  format: ${BEM_FORMAT}
cases:
  - ${BEM_CASES}/bem.md
  - $BEM_CASES/nesting.md
`)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, FormatYAML, config.Output.Format)
	assert.Equal(t, []string{"/srv/cases/bem.md", "/srv/cases/nesting.md"}, config.Cases)
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	assert.NoError(t, err)

	var config Config
	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	assert.NoError(t, err)
	assert.Equal(t, bem.DefaultSeparators(), config.Separators)
}
