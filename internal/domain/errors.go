package domain

import "errors"

// Domain errors.
var (
	ErrAPIKeyMissing         = errors.New("clé API non définie")
	ErrSimulationMode        = errors.New("mode simulation activé")
	ErrDatabaseNotConfigured = errors.New("base de données non configurée")
	ErrAnalyzerUnavailable   = errors.New("service IA indisponible")
	ErrInvalidRetention      = errors.New("la durée de rétention doit être positive")
	ErrUnknownExportFormat   = errors.New("format d'export inconnu")
)

var codes = map[error]string{
	ErrAPIKeyMissing:         "api_key_missing",
	ErrSimulationMode:        "simulation_mode",
	ErrDatabaseNotConfigured: "database_not_configured",
	ErrAnalyzerUnavailable:   "analyzer_unavailable",
	ErrInvalidRetention:      "invalid_retention",
	ErrUnknownExportFormat:   "unknown_export_format",
}

// Code returns the stable code of the domain error wrapped in err, or "".
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
