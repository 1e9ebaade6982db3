package cli

import (
	"errors"
	"strings"

	"auditools/internal/domain"
	"auditools/internal/domain/entities"
	"auditools/pkg/translation"
)

const newTextPreview = 50

func (c *Console) Connection(env string, r *entities.ConnectionReport, err error) bool {
	c.Section("check_start", map[string]any{"Provider": r.Provider})
	switch {
	case errors.Is(err, domain.ErrAPIKeyMissing):
		c.Fail("check_key_missing", map[string]any{"Env": env})
		c.Plain("check_key_hint", map[string]any{"Env": env})
	case errors.Is(err, domain.ErrSimulationMode):
		c.Warn("check_simulation", nil)
		c.Plain("check_simulation_hint", map[string]any{"Provider": r.Provider})
	case err != nil:
		c.Fail("check_error", map[string]any{"Provider": r.Provider, "Error": c.ErrorText(err)})
	default:
		c.OK("check_ok", map[string]any{"Count": r.ModelCount})
		if len(r.Highlighted) > 0 {
			c.Plain("check_models", map[string]any{"Models": strings.Join(r.Highlighted, ", ")})
		}
	}
	return r.OK
}

func (c *Console) Service(r *entities.ServiceReport, err error) bool {
	c.Section("test_start", nil)
	c.Plain("test_mode", map[string]any{"Mode": r.Status.Mode})
	c.Plain("test_key_present", map[string]any{"Value": yesNo(r.Status.APIKeyPresent)})
	c.Plain("test_client_ready", map[string]any{"Value": yesNo(r.Status.ClientInitialised)})
	if err != nil {
		c.Fail("test_failed", map[string]any{"Error": c.ErrorText(err)})
		return false
	}
	if r.Fallback {
		c.Warn("test_fallback", nil)
	}
	if r.OK {
		c.OK("test_ok", nil)
		c.Plain("test_score", map[string]any{"Score": formatScore(r.Probe.Score)})
	}
	return r.OK
}

func (c *Console) Structure(r *entities.StructureReport) bool {
	c.Section("structure_start", nil)
	for _, f := range r.Files {
		if f.Present {
			c.OK("structure_present", map[string]any{"File": f.Path})
		} else {
			c.Fail("structure_missing", map[string]any{"File": f.Path})
		}
	}
	return r.OK
}

func (c *Console) Environment(env, provider string, r *entities.EnvironmentReport) bool {
	c.Section("setup_start", nil)
	if !r.APIKeyPresent {
		c.Warn("setup_key_missing", map[string]any{"Env": env})
		c.Plain("setup_key_hint", map[string]any{"Env": env})
		return false
	}
	c.OK("setup_key", map[string]any{"Env": env, "Masked": r.MaskedKey})
	if r.ClientReady {
		c.OK("setup_client_ok", map[string]any{"Provider": provider})
	} else {
		c.Fail("setup_client_missing", map[string]any{"Provider": provider})
	}
	return r.OK
}

func (c *Console) Cleanup(days int, n int64, err error) bool {
	c.Section("cleanup_start", map[string]any{"Days": days})
	switch {
	case err != nil:
		c.Fail("cleanup_error", map[string]any{"Error": c.ErrorText(err)})
		return false
	case n == 0:
		c.OK("cleanup_none", nil)
	default:
		c.OK("cleanup_done", map[string]any{"Count": n})
	}
	return true
}

func (c *Console) Stats(path string, s *entities.Stats, err error) bool {
	c.Section("export_start", nil)
	if err != nil {
		c.Fail("export_error", map[string]any{"Error": c.ErrorText(err)})
		return false
	}
	c.OK("export_done", map[string]any{"Path": path})
	c.Plain("export_total", map[string]any{"Total": s.TotalAnalyses})
	c.Plain("export_types", map[string]any{"Types": len(s.ByType)})
	if len(s.RecentActivity) == 0 {
		return true
	}
	c.Plain("export_recent", nil)
	for _, r := range s.RecentActivity {
		c.Plain("export_recent_line", map[string]any{
			"ID":    r.ID,
			"Audit": r.Audit,
			"Type":  r.Type,
			"Score": formatScore(r.Score),
			"When":  formatWhen(r.Date),
		})
	}
	return true
}

func (c *Console) Repair(n int, err error) bool {
	c.Section("repair_start", nil)
	switch {
	case err != nil:
		c.Fail("repair_error", map[string]any{"Error": c.ErrorText(err)})
		return false
	case n == 0:
		c.OK("repair_none", nil)
	default:
		c.OK("repair_done", map[string]any{"Count": n})
	}
	return true
}

func (c *Console) Extraction(r *entities.ExtractionReport) {
	c.Section("extract_results", nil)
	c.Plain("extract_templates", map[string]any{"Count": len(r.Result.Templates)})
	c.Plain("extract_unique", map[string]any{"Count": r.Result.Unique.Len()})
	for _, fe := range r.Result.Errors {
		c.Warn("extract_file_error", map[string]any{"Template": fe.Template, "Error": fe.Err.Error()})
	}

	rec := r.Reconciliation
	if rec.NewCount == 0 {
		c.OK("extract_nothing_new", nil)
	} else {
		for _, text := range rec.Appended {
			c.Plain("extract_new", map[string]any{"Text": truncate(text, newTextPreview)})
		}
		c.Section("extract_stats", nil)
		c.Plain("extract_unique", map[string]any{"Count": r.Result.Unique.Len()})
		c.Plain("extract_existing", map[string]any{"Count": len(rec.Existing)})
		c.Plain("extract_added", map[string]any{"Count": rec.NewCount})
		c.Plain("extract_total", map[string]any{"Count": len(rec.Existing) + rec.NewCount})
	}

	if r.ReportPath != "" {
		c.Section("extract_report", map[string]any{"Path": r.ReportPath})
	}
	c.Section("extract_done", nil)
	c.Section("extract_next", nil)
	c.Plain("extract_next_1", nil)
	c.Plain("extract_next_2", nil)
	c.Plain("extract_next_3", nil)
}

// Coverage prints, per language, the keys missing from its dictionary.
func (c *Console) Coverage(m *translation.Manager) bool {
	c.Section("coverage_title", map[string]any{"Base": m.BaseLanguage()})
	total := len(m.Keys())
	complete := true
	for _, lang := range m.Languages() {
		missing := m.Missing(lang)
		if len(missing) == 0 {
			c.OK("coverage_complete", map[string]any{"Lang": lang, "Count": total})
			continue
		}
		complete = false
		c.Warn("coverage_missing", map[string]any{"Lang": lang, "Missing": len(missing), "Count": total})
		for _, key := range missing {
			c.Plain("coverage_key", map[string]any{"Key": key})
		}
	}
	return complete
}
