package cli

import (
	"context"
	"io"

	ucli "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"auditools/internal/application"
	"auditools/internal/config"
	"auditools/internal/infrastructure/ai"
	"auditools/internal/infrastructure/database"
	"auditools/internal/ports/output"
)

// Runtime is what every command needs once the process is initialised.
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	Translator output.T
	Out        io.Writer
	In         io.ReadCloser

	choose chooser
}

func (rt *Runtime) chooser() chooser {
	if rt.choose != nil {
		return rt.choose
	}
	return promptChooser(rt.In, rt.Out)
}

func (rt *Runtime) console(cctx *ucli.Context) *Console {
	locale := cctx.String("locale")
	if locale == "" {
		locale = rt.Config.CLILocale
	}
	return NewConsole(rt.Out, rt.Translator, locale)
}

// openAnalysis builds the analysis service. The database is only opened when
// withDB is set and DATABASE_URL is configured; lenient callers keep going
// without it when the connection fails.
func (rt *Runtime) openAnalysis(ctx context.Context, withDB, lenient bool) (*application.AnalysisService, func(), error) {
	analyzer, closeAnalyzer, err := ai.New(ctx, rt.Config, rt.Logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){closeAnalyzer}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var repo output.AnalysisRepository
	if withDB && rt.Config.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, rt.Config.DatabaseURL, rt.Logger)
		switch {
		case err == nil:
			closers = append(closers, pool.Close)
			repo = database.NewAnalysisRepository(pool)
		case lenient:
			rt.Logger.Warn("⚠️ Base de données indisponible", zap.Error(err))
		default:
			closeAll()
			return nil, nil, err
		}
	}

	svc := application.NewAnalysisService(repo, analyzer, rt.Config.APIKey(), rt.Config.AppRoot, rt.Logger)
	return svc, closeAll, nil
}

func (rt *Runtime) providerName() string {
	if rt.Config.AIProvider == config.ProviderGemini {
		return "Gemini"
	}
	return "OpenAI"
}

// NewManageIAApp builds the manage-ia command.
func NewManageIAApp(rt *Runtime) *ucli.App {
	usage := rt.Translator.T(rt.Config.CLILocale, "manage_usage", nil)
	return &ucli.App{
		Name:      "manage-ia",
		Usage:     usage,
		Writer:    rt.Out,
		ErrWriter: rt.Out,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn, error",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   rt.Config.LogLevel,
			},
			&ucli.StringFlag{
				Name:    "locale",
				Usage:   "fr, en",
				EnvVars: []string{"CLI_LOCALE"},
				Value:   rt.Config.CLILocale,
			},
		},
		Before: rt.applyLogLevel,
		Action: func(cctx *ucli.Context) error {
			return rt.interactive(cctx, rt.chooser())
		},
		Commands: []*ucli.Command{
			{
				Name:  "check",
				Usage: "Vérifier la connexion au fournisseur IA",
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, false, rt.check)
				},
			},
			{
				Name:  "test",
				Usage: "Tester le service IA",
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, false, rt.test)
				},
			},
			{
				Name:  "setup",
				Usage: "Vérifier la configuration de l'environnement",
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, false, rt.setup)
				},
			},
			{
				Name:  "structure",
				Usage: "Vérifier la structure du projet",
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, false, rt.structure)
				},
			},
			{
				Name:  "cleanup",
				Usage: "Supprimer les analyses anciennes",
				Flags: []ucli.Flag{
					&ucli.IntFlag{Name: "days", Value: rt.Config.CleanupDays, Usage: "âge minimal en jours"},
				},
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, true, func(cctx *ucli.Context, svc *application.AnalysisService) bool {
						return rt.cleanup(cctx, svc, cctx.Int("days"))
					})
				},
			},
			{
				Name:  "export",
				Usage: "Exporter les statistiques des analyses",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: rt.Config.StatsPath},
					&ucli.StringFlag{Name: "format", Usage: "json ou yaml (déduit de l'extension par défaut)"},
				},
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, true, func(cctx *ucli.Context, svc *application.AnalysisService) bool {
						return rt.export(cctx, svc, cctx.String("output"), cctx.String("format"))
					})
				},
			},
			{
				Name:  "repair",
				Usage: "Réparer les analyses mal formées",
				Action: func(cctx *ucli.Context) error {
					return rt.withService(cctx, true, rt.repair)
				},
			},
			{
				Name:  "all",
				Usage: "Tout vérifier",
				Action: func(cctx *ucli.Context) error {
					return rt.withLenientService(cctx, rt.all)
				},
			},
			{
				Name:  "interactive",
				Usage: "Menu interactif",
				Action: func(cctx *ucli.Context) error {
					return rt.interactive(cctx, rt.chooser())
				},
			},
			{
				Name:  "migrate",
				Usage: "Appliquer les migrations de la base de données",
				Action: func(cctx *ucli.Context) error {
					return rt.migrate(cctx)
				},
			},
		},
	}
}

type step func(cctx *ucli.Context, svc *application.AnalysisService) bool

func (rt *Runtime) withService(cctx *ucli.Context, withDB bool, run step) error {
	svc, closeAll, err := rt.openAnalysis(cctx.Context, withDB, false)
	if err != nil {
		return err
	}
	defer closeAll()
	if !run(cctx, svc) {
		return ErrFailed
	}
	return nil
}

func (rt *Runtime) withLenientService(cctx *ucli.Context, run step) error {
	svc, closeAll, err := rt.openAnalysis(cctx.Context, true, true)
	if err != nil {
		return err
	}
	defer closeAll()
	if !run(cctx, svc) {
		return ErrFailed
	}
	return nil
}

func (rt *Runtime) check(cctx *ucli.Context, svc *application.AnalysisService) bool {
	r, err := svc.CheckConnection(cctx.Context)
	return rt.console(cctx).Connection(rt.Config.APIKeyEnv(), r, err)
}

func (rt *Runtime) test(cctx *ucli.Context, svc *application.AnalysisService) bool {
	r, err := svc.TestService(cctx.Context)
	return rt.console(cctx).Service(r, err)
}

func (rt *Runtime) setup(cctx *ucli.Context, svc *application.AnalysisService) bool {
	return rt.console(cctx).Environment(rt.Config.APIKeyEnv(), rt.providerName(), svc.SetupEnvironment())
}

func (rt *Runtime) structure(cctx *ucli.Context, svc *application.AnalysisService) bool {
	return rt.console(cctx).Structure(svc.CheckProjectStructure())
}

func (rt *Runtime) cleanup(cctx *ucli.Context, svc *application.AnalysisService, days int) bool {
	n, err := svc.CleanupOldAnalyses(cctx.Context, days)
	return rt.console(cctx).Cleanup(days, n, err)
}

func (rt *Runtime) export(cctx *ucli.Context, svc *application.AnalysisService, path, format string) bool {
	stats, err := svc.ExportStats(cctx.Context)
	if err == nil {
		err = application.WriteStats(stats, path, format)
	}
	return rt.console(cctx).Stats(path, stats, err)
}

func (rt *Runtime) repair(cctx *ucli.Context, svc *application.AnalysisService) bool {
	n, err := svc.RepairAnalyses(cctx.Context)
	return rt.console(cctx).Repair(n, err)
}

func (rt *Runtime) all(cctx *ucli.Context, svc *application.AnalysisService) bool {
	r := svc.RunAll(cctx.Context, application.RunAllOptions{
		CleanupDays: rt.Config.CleanupDays,
		StatsPath:   rt.Config.StatsPath,
	})

	c := rt.console(cctx)
	c.Environment(rt.Config.APIKeyEnv(), rt.providerName(), r.Environment)
	c.Structure(r.Structure)
	c.Connection(rt.Config.APIKeyEnv(), r.Connection, r.ConnectionErr)
	c.Service(r.Service, r.ServiceErr)
	c.Cleanup(rt.Config.CleanupDays, r.Cleaned, r.CleanupErr)
	c.Stats(r.StatsPath, r.Stats, r.StatsErr)
	c.Repair(r.Repaired, r.RepairErr)

	if r.OK() {
		c.Section("all_ok", nil)
		return true
	}
	c.Section("all_failed", nil)
	return false
}

func (rt *Runtime) migrate(cctx *ucli.Context) error {
	c := rt.console(cctx)
	if err := rt.Config.RequireDatabase(); err != nil {
		c.Fail("migrate_error", map[string]any{"Error": c.ErrorText(err)})
		return ErrFailed
	}
	version, err := database.RunMigrations(rt.Config.DatabaseURL, rt.Config.MigrationsPath, rt.Logger)
	if err != nil {
		c.Fail("migrate_error", map[string]any{"Error": err.Error()})
		return ErrFailed
	}
	c.OK("migrate_done", map[string]any{"Version": version})
	return nil
}
