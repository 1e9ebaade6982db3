package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditools/internal/domain/entities"
	"auditools/pkg/textextract"
)

func newReport(existing map[string]string, templates ...textextract.TemplateTexts) *entities.ExtractionReport {
	unique := textextract.NewCollector()
	for _, t := range templates {
		unique.Add(t.Template, t.Texts)
	}
	unique.MarkTranslated(existing)
	return &entities.ExtractionReport{
		Result:         &textextract.Result{Templates: templates, Unique: unique},
		Reconciliation: &textextract.Reconciliation{Existing: existing},
	}
}

func TestRender(t *testing.T) {
	r := newReport(map[string]string{"Bonjour": "Hello"},
		textextract.TemplateTexts{Template: "a.html", Texts: []string{"Bonjour"}},
		textextract.TemplateTexts{Template: "b.html", Texts: []string{"Bonjour", "Au revoir"}},
		textextract.TemplateTexts{Template: "c.html", Texts: []string{"Au revoir"}},
		textextract.TemplateTexts{Template: "d.html", Texts: []string{"Au revoir"}},
		textextract.TemplateTexts{Template: "e.html", Texts: []string{"Au revoir"}},
	)

	var sb strings.Builder
	require.NoError(t, Render(&sb, r))
	out := sb.String()

	assert.Contains(t, out, "📊 RAPPORT D'EXTRACTION DES TRADUCTIONS\n")
	assert.Contains(t, out, "- Templates analysés: 5\n")
	assert.Contains(t, out, "- Textes uniques: 2\n")
	assert.Contains(t, out, "- Déjà traduits: 1\n")
	assert.Contains(t, out, "- À traduire: 1\n")
	assert.Contains(t, out, "📁 TEMPLATES PAR NOMBRE DE TEXTES:\n- b.html: 2 textes\n- a.html: 1 textes\n- c.html: 1 textes\n")
	assert.Contains(t, out, "❌ NON TRADUITS:\n  1. Au revoir\n     Templates: b.html, c.html, d.html... (+1 autres)\n")
	assert.NotContains(t, out, "  2. ")
}

func TestRender_AllTranslated(t *testing.T) {
	r := newReport(map[string]string{"Bonjour": "Hello"},
		textextract.TemplateTexts{Template: "a.html", Texts: []string{"Bonjour"}},
	)

	var sb strings.Builder
	require.NoError(t, Render(&sb, r))
	assert.Contains(t, sb.String(), "✅ Tous les textes sont déjà dans le CSV !\n")
	assert.NotContains(t, sb.String(), "NON TRADUITS")
}

func TestTextWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "translation_report.txt")
	r := newReport(map[string]string{},
		textextract.TemplateTexts{Template: "a.html", Texts: []string{"Connexion"}},
	)

	require.NoError(t, NewTextWriter().Write(path, r))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Repeat("=", 60)+"\n"))
	assert.Contains(t, string(data), "  1. Connexion\n     Templates: a.html\n")
}

func TestTextWriter_WriteWrapsErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	r := newReport(nil, textextract.TemplateTexts{Template: "a.html", Texts: []string{"Bonjour"}})

	err := NewTextWriter().Write(filepath.Join(blocker, "sub", "report.txt"), r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create report dir: ")

	err = NewTextWriter().Write(dir, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create report: ")
}
