// Package report renders the extraction report read by translators.
package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"auditools/internal/domain/entities"
	"auditools/internal/ports/output"
	"auditools/pkg/textextract"
)

var _ output.ReportWriter = (*TextWriter)(nil)

const maxListedTemplates = 3

var rule = strings.Repeat("=", 60)

// TextWriter writes the report as plain UTF-8 text.
type TextWriter struct{}

func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

func (w *TextWriter) Write(path string, r *entities.ExtractionReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Render(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// Render writes the report to out.
func Render(out io.Writer, r *entities.ExtractionReport) error {
	b := bufio.NewWriter(out)
	untranslated := r.Untranslated()

	fmt.Fprintf(b, "%s\n📊 RAPPORT D'EXTRACTION DES TRADUCTIONS\n%s\n\n", rule, rule)

	fmt.Fprintln(b, "📈 STATISTIQUES GLOBALES:")
	fmt.Fprintf(b, "- Templates analysés: %d\n", len(r.Result.Templates))
	fmt.Fprintf(b, "- Textes uniques: %d\n", r.Result.Unique.Len())
	fmt.Fprintf(b, "- Déjà traduits: %d\n", r.TranslatedCount())
	fmt.Fprintf(b, "- À traduire: %d\n\n", len(untranslated))

	fmt.Fprintln(b, "📁 TEMPLATES PAR NOMBRE DE TEXTES:")
	templates := slices.Clone(r.Result.Templates)
	slices.SortStableFunc(templates, func(x, y textextract.TemplateTexts) int {
		return cmp.Compare(len(y.Texts), len(x.Texts))
	})
	for _, t := range templates {
		fmt.Fprintf(b, "- %s: %d textes\n", t.Template, len(t.Texts))
	}

	fmt.Fprintf(b, "\n%s\n📋 LISTE COMPLÈTE DES TEXTES À TRADUIRE:\n%s\n\n", rule, rule)

	if len(untranslated) == 0 {
		fmt.Fprintln(b, "✅ Tous les textes sont déjà dans le CSV !")
		return b.Flush()
	}

	fmt.Fprintln(b, "❌ NON TRADUITS:")
	for i, text := range untranslated {
		fmt.Fprintf(b, "%3d. %s\n", i+1, text)
		var sources []string
		if e, ok := r.Result.Unique.Entry(text); ok {
			sources = e.Templates
		}
		shown := sources[:min(len(sources), maxListedTemplates)]
		fmt.Fprintf(b, "     Templates: %s", strings.Join(shown, ", "))
		if extra := len(sources) - len(shown); extra > 0 {
			fmt.Fprintf(b, "... (+%d autres)", extra)
		}
		fmt.Fprintln(b)
	}
	return b.Flush()
}
