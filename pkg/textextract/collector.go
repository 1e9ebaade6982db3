package textextract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

var (
	// ErrTemplatesDirNotFound is returned when the templates directory is missing.
	ErrTemplatesDirNotFound = errors.New("templates directory not found")
	// ErrInvalidEncoding marks a template that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("template is not valid UTF-8")
)

// Entry describes one unique text across all templates.
type Entry struct {
	Count      int
	Templates  []string
	Translated bool
}

// Collector accumulates unique texts in first-seen order.
type Collector struct {
	order   []string
	entries map[string]*Entry
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{entries: map[string]*Entry{}}
}

// Add records the texts extracted from one template.
func (c *Collector) Add(template string, texts []string) {
	for _, text := range texts {
		if e, ok := c.entries[text]; ok {
			e.Count++
			e.Templates = append(e.Templates, template)
			continue
		}
		c.entries[text] = &Entry{Count: 1, Templates: []string{template}}
		c.order = append(c.order, text)
	}
}

// Texts returns the unique texts in first-seen order.
func (c *Collector) Texts() []string {
	return append([]string(nil), c.order...)
}

// Entry returns the entry for text.
func (c *Collector) Entry(text string) (*Entry, bool) {
	e, ok := c.entries[text]
	return e, ok
}

// Len is the number of unique texts.
func (c *Collector) Len() int {
	return len(c.order)
}

// MarkTranslated flags every entry whose text has a known translation.
func (c *Collector) MarkTranslated(known map[string]string) {
	for text, e := range c.entries {
		_, e.Translated = known[text]
	}
}

// TemplateTexts is the list of texts found in one template.
type TemplateTexts struct {
	Template string
	Texts    []string
}

// FileError is a template that could not be read.
type FileError struct {
	Template string
	Err      error
}

// Result is the outcome of scanning a templates directory.
type Result struct {
	// Templates holds only templates that produced at least one text, in walk order.
	Templates []TemplateTexts
	Unique    *Collector
	Errors    []FileError
	// Empty lists templates where nothing was extracted.
	Empty []string
}

// ExtractDir scans every *.html file below dir. Unreadable or non UTF-8 files
// are recorded in Result.Errors and the scan continues.
func ExtractDir(dir string, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTemplatesDirNotFound, dir)
	}

	res := &Result{Unique: NewCollector()}
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		if err != nil {
			logger.Warn("template walk failed", zap.String("template", rel), zap.Error(err))
			res.Errors = append(res.Errors, FileError{Template: rel, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("template read failed", zap.String("template", rel), zap.Error(err))
			res.Errors = append(res.Errors, FileError{Template: rel, Err: err})
			return nil
		}
		if !utf8.Valid(content) {
			logger.Warn("template is not valid UTF-8", zap.String("template", rel))
			res.Errors = append(res.Errors, FileError{Template: rel, Err: ErrInvalidEncoding})
			return nil
		}

		texts := Extract(string(content))
		if len(texts) == 0 {
			logger.Debug("no text extracted", zap.String("template", rel))
			res.Empty = append(res.Empty, rel)
			return nil
		}
		logger.Debug("texts extracted", zap.String("template", rel), zap.Int("count", len(texts)))
		res.Templates = append(res.Templates, TemplateTexts{Template: rel, Texts: texts})
		res.Unique.Add(rel, texts)
		return nil
	})
	if walkErr != nil {
		return res, fmt.Errorf("walk templates: %w", walkErr)
	}
	return res, nil
}
