package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditools/internal/domain/entities"
	"auditools/pkg/textextract"
)

type recordingWriter struct {
	path   string
	report *entities.ExtractionReport
}

func (w *recordingWriter) Write(path string, r *entities.ExtractionReport) error {
	w.path, w.report = path, r
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExtractionService_Run(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	csvPath := filepath.Join(dir, "translations", "to_translate.csv")
	writeFile(t, filepath.Join(templates, "index.html"), `<h1>Bonjour</h1><button>Au revoir</button>`)
	writeFile(t, filepath.Join(templates, "admin", "users.html"), `<th>Bonjour</th>`)
	writeFile(t, csvPath, "Bonjour,Hello\n")

	w := &recordingWriter{}
	svc := NewExtractionService(ExtractionPaths{
		TemplatesDir: templates,
		CSVPath:      csvPath,
		ReportPath:   filepath.Join(dir, "translation_report.txt"),
	}, w, nil)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Result.Unique.Len())
	assert.Equal(t, 1, report.Reconciliation.NewCount)
	assert.Equal(t, []string{"Au revoir"}, report.Untranslated())
	assert.Equal(t, 1, report.TranslatedCount())
	assert.Equal(t, filepath.Join(dir, "translation_report.txt"), report.ReportPath)
	assert.Same(t, report, w.report)

	e, ok := report.Result.Unique.Entry("Bonjour")
	require.True(t, ok)
	assert.True(t, e.Translated)
	assert.Equal(t, 2, e.Count)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour,Hello\nAu revoir,\n", string(data))

	again, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again.Reconciliation.NewCount)
}

func TestExtractionService_MissingTemplates(t *testing.T) {
	svc := NewExtractionService(ExtractionPaths{TemplatesDir: filepath.Join(t.TempDir(), "nope")}, nil, nil)
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, textextract.ErrTemplatesDirNotFound)
}

func TestExtractionService_SkipsUnreadableTemplate(t *testing.T) {
	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	csvPath := filepath.Join(dir, "to_translate.csv")
	writeFile(t, filepath.Join(templates, "latin1.html"), "<p>Caf\xe9 cr\xe8me</p>")
	writeFile(t, filepath.Join(templates, "index.html"), `<h1>Tableau de bord</h1>`)

	svc := NewExtractionService(ExtractionPaths{TemplatesDir: templates, CSVPath: csvPath}, nil, nil)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Result.Errors, 1)
	assert.Equal(t, "latin1.html", report.Result.Errors[0].Template)
	assert.ErrorIs(t, report.Result.Errors[0].Err, textextract.ErrInvalidEncoding)
	assert.Equal(t, []string{"Tableau de bord"}, report.Result.Unique.Texts())
	assert.Equal(t, 1, report.Reconciliation.NewCount)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Tableau de bord,\n", string(data))
}
