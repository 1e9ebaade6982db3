package application

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"auditools/internal/domain"
	"auditools/internal/domain/entities"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath guesses the export format from the file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteStats serialises stats to path. An empty format is guessed from path.
func WriteStats(stats *entities.Stats, path, format string) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err = json.MarshalIndent(stats, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML, "yml":
		data, err = yaml.Marshal(stats)
	default:
		return fmt.Errorf("write stats %q: %w", format, domain.ErrUnknownExportFormat)
	}
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create stats dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
