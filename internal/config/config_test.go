package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditools/internal/domain"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, []string{"en", "fr"}, cfg.Languages)
	assert.Equal(t, "en", cfg.BaseLanguage)
	assert.Equal(t, "fr", cfg.CLILocale)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, "translations/to_translate.csv", cfg.TranslationCSV)
	assert.Equal(t, 30, cfg.CleanupDays)
	assert.Equal(t, 2*time.Second, cfg.AIRetryDelay)
	assert.ErrorIs(t, cfg.RequireDatabase(), domain.ErrDatabaseNotConfigured)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"AI_PROVIDER":    " Gemini ",
		"GEMINI_API_KEY": "g-key",
		"OPENAI_API_KEY": "o-key",
		"LANGUAGES":      "en, fr ,de",
		"DATABASE_URL":   "postgres://localhost:5432/audit?sslmode=disable",
		"CLEANUP_DAYS":   "7",
	})
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AIProvider)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, "GEMINI_API_KEY", cfg.APIKeyEnv())
	assert.Equal(t, []string{"en", "fr", "de"}, cfg.Languages)
	assert.Equal(t, 7, cfg.CleanupDays)
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown provider", map[string]string{"AI_PROVIDER": "mistral"}},
		{"invalid language", map[string]string{"LANGUAGES": "en,not a tag"}},
		{"empty languages", map[string]string{"LANGUAGES": " , "}},
		{"base language not listed", map[string]string{"LANGUAGES": "fr,de", "BASE_LANGUAGE": "en"}},
		{"negative cleanup", map[string]string{"CLEANUP_DAYS": "-1"}},
		{"database url without host", map[string]string{"DATABASE_URL": "postgres:///audit"}},
		{"cleanup not a number", map[string]string{"CLEANUP_DAYS": "thirty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.Error(t, err)
		})
	}
}
