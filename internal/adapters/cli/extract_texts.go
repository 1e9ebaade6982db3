package cli

import (
	ucli "github.com/urfave/cli/v2"

	"auditools/internal/adapters/report"
	"auditools/internal/application"
	"auditools/pkg/translation"
)

// NewExtractTextsApp builds the extract-texts command.
func NewExtractTextsApp(rt *Runtime) *ucli.App {
	cfg := rt.Config
	return &ucli.App{
		Name:      "extract-texts",
		Usage:     rt.Translator.T(cfg.CLILocale, "extract_usage", nil),
		Writer:    rt.Out,
		ErrWriter: rt.Out,
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "templates", Value: cfg.TemplatesDir, Usage: "répertoire des templates"},
			&ucli.StringFlag{Name: "csv", Value: cfg.TranslationCSV, Usage: "CSV des textes à traduire"},
			&ucli.StringFlag{Name: "report", Value: cfg.ReportPath, Usage: "rapport texte (vide pour ne pas l'écrire)"},
			&ucli.StringFlag{Name: "log-level", EnvVars: []string{"LOG_LEVEL"}, Value: cfg.LogLevel},
			&ucli.StringFlag{Name: "locale", EnvVars: []string{"CLI_LOCALE"}, Value: cfg.CLILocale},
		},
		Before: rt.applyLogLevel,
		Action: rt.extract,
		Commands: []*ucli.Command{
			{
				Name:  "coverage",
				Usage: rt.Translator.T(cfg.CLILocale, "coverage_usage", nil),
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "dir", Value: cfg.TranslationsDir, Usage: "répertoire des dictionnaires JSON"},
				},
				Action: rt.coverage,
			},
		},
	}
}

func (rt *Runtime) extract(cctx *ucli.Context) error {
	c := rt.console(cctx)
	c.Title("extract_title")

	svc := application.NewExtractionService(application.ExtractionPaths{
		TemplatesDir: cctx.String("templates"),
		CSVPath:      cctx.String("csv"),
		ReportPath:   cctx.String("report"),
	}, report.NewTextWriter(), rt.Logger)

	r, err := svc.Run(cctx.Context)
	if err != nil {
		c.Fail("extract_error", map[string]any{"Error": err.Error()})
		return ErrFailed
	}
	c.Extraction(r)
	return nil
}

func (rt *Runtime) coverage(cctx *ucli.Context) error {
	m := translation.NewManager(cctx.String("dir"), rt.Config.Languages,
		translation.WithBaseLanguage(rt.Config.BaseLanguage),
		translation.WithLogger(rt.Logger),
	)
	if !rt.console(cctx).Coverage(m) {
		return ErrFailed
	}
	return nil
}
