package textextract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Catalog is the content of the translation CSV: two columns, source text and
// translated text, no header. An empty translation marks a pending row.
type Catalog struct {
	// Translations maps a source text to its non-empty translation.
	Translations map[string]string
	// Sources holds every source text present in the file, pending or not.
	Sources map[string]struct{}
	Skipped int
}

// Has reports whether source already has a row in the catalog.
func (c *Catalog) Has(source string) bool {
	_, ok := c.Sources[source]
	return ok
}

// ReadCSV loads the catalog at path. A missing file is an empty catalog.
// Malformed rows are skipped.
func ReadCSV(path string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := &Catalog{Translations: map[string]string{}, Sources: map[string]struct{}{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return cat, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("catalog row skipped", zap.String("path", path), zap.Int("line", parseErr.Line), zap.Error(err))
			cat.Skipped++
			continue
		}
		if err != nil {
			return cat, fmt.Errorf("read catalog: %w", err)
		}

		source := ""
		if len(row) > 0 {
			source = strings.TrimSpace(row[0])
		}
		if source == "" {
			cat.Skipped++
			continue
		}
		cat.Sources[source] = struct{}{}

		if len(row) < 2 {
			continue
		}
		if translated := strings.TrimSpace(row[1]); translated != "" {
			cat.Translations[source] = translated
		}
	}
	return cat, nil
}

// Reconciliation is the outcome of ReconcileAndAppend.
type Reconciliation struct {
	NewCount int
	Appended []string
	// Existing holds the translations known before the update.
	Existing map[string]string
	// Pending is the number of rows already in the file without translation.
	Pending int
}

// ReconcileAndAppend appends a pending row (text, "") for every text that has
// no row yet in the catalog at csvPath. Existing rows are never rewritten.
func ReconcileAndAppend(texts []string, csvPath string, logger *zap.Logger) (*Reconciliation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cat, err := ReadCSV(csvPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.String("path", csvPath), zap.Int("translations", len(cat.Translations)))

	rec := &Reconciliation{
		Existing: cat.Translations,
		Pending:  len(cat.Sources) - len(cat.Translations),
	}
	var rows [][]string
	for _, text := range texts {
		if cat.Has(text) {
			continue
		}
		// Guards against duplicates inside texts itself.
		cat.Sources[text] = struct{}{}
		rows = append(rows, []string{text, ""})
		rec.Appended = append(rec.Appended, text)
		logger.Debug("new text", zap.String("text", text))
	}
	rec.NewCount = len(rows)
	if len(rows) == 0 {
		return rec, nil
	}

	if err := appendRows(csvPath, rows); err != nil {
		return nil, err
	}
	return rec, nil
}

func appendRows(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	needsNewline, err := missingTrailingNewline(path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open catalog for append: %w", err)
	}
	defer f.Close()

	if needsNewline {
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("append to catalog: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("append to catalog: %w", err)
	}
	return f.Close()
}

func missingTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat catalog: %w", err)
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("read catalog: %w", err)
	}
	return last[0] != '\n', nil
}
