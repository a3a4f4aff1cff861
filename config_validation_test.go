package bemselector

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/bemselector/bem"
	"github.com/shibukawa/bemselector/testhelper"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	configPath := writeConfig(t, `
separators:
  element: "__"
  block: "should cause error"
`)

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		err    error
	}{
		{
			name:   "defaults" + testhelper.GetCaller(t),
			config: *DefaultConfig(),
		},
		{
			name: "same element and modifier separators" + testhelper.GetCaller(t),
			config: Config{
				Separators: bem.Separators{Element: "--", Modifier: "--", ModifierValue: "--"},
				Output:     OutputConfig{Format: FormatText},
			},
			err: bem.ErrInvalidSeparators,
		},
		{
			name: "empty separator" + testhelper.GetCaller(t),
			config: Config{
				Separators: bem.Separators{Element: "__", Modifier: "--"},
				Output:     OutputConfig{Format: FormatText},
			},
			err: bem.ErrInvalidSeparators,
		},
		{
			name: "unknown format" + testhelper.GetCaller(t),
			config: Config{
				Separators: bem.DefaultSeparators(),
				Output:     OutputConfig{Format: "table"},
			},
			err: ErrUnknownFormat,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateConfig(&test.config)
			if test.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.IsError(t, err, test.err)
			assert.IsError(t, err, ErrConfigValidation)
		})
	}
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
output:
  format: markdown
`)

	_, err := LoadConfig(configPath)
	assert.IsError(t, err, ErrConfigValidation)
	assert.IsError(t, err, ErrUnknownFormat)
}
