package i18n

import (
	"maps"
	"slices"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator("fr", nil)

	assert.Equal(t, "Quitter", tr.T("fr", "menu_quit", nil))
	assert.Equal(t, "Quit", tr.T("en", "menu_quit", nil))
	assert.Equal(t, "   ✅ 3 analyses supprimées", tr.T("", "cleanup_done", map[string]any{"Count": 3}))
	assert.Equal(t, "❌ OPENAI_API_KEY is not set", tr.T("en", "check_key_missing", map[string]any{"Env": "OPENAI_API_KEY"}))
}

func TestTranslator_Fallbacks(t *testing.T) {
	tr := NewTranslator("fr", nil)

	assert.Equal(t, "Quitter", tr.T("de", "menu_quit", nil))
	assert.Equal(t, "no_such_key", tr.T("en", "no_such_key", nil))
	assert.Empty(t, tr.T("en", "", nil))
	assert.Equal(t, "Goodbye! 👋", tr.T("en", "menu_bye", nil))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	load := func(name string) map[string]any {
		data, err := localeFS.ReadFile(name)
		require.NoError(t, err)
		out := map[string]any{}
		require.NoError(t, toml.Unmarshal(data, &out))
		return out
	}
	fr := slices.Sorted(maps.Keys(load("active.fr.toml")))
	en := slices.Sorted(maps.Keys(load("active.en.toml")))
	assert.Equal(t, fr, en)
}
