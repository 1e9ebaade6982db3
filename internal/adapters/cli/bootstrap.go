package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	ucli "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"auditools/internal/config"
	"auditools/internal/infrastructure/i18n"
	"auditools/internal/infrastructure/logger"
)

// Main loads the configuration, builds the app with build and runs it until
// completion or interrupt. It returns the process exit code.
func Main(build func(*Runtime) *ucli.App) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
	defer logger.Sync()
	log := logger.L()

	rt := &Runtime{
		Config:     cfg,
		Logger:     log,
		Translator: i18n.NewTranslator(cfg.CLILocale, log),
		Out:        os.Stdout,
		In:         os.Stdin,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := build(rt).RunContext(ctx, os.Args); err != nil {
		if !errors.Is(err, ErrFailed) {
			log.Error("❌ Commande en échec", zap.Error(err))
		}
		return 1
	}
	return 0
}

// applyLogLevel applies --log-level before any command runs.
func (rt *Runtime) applyLogLevel(cctx *ucli.Context) error {
	if err := logger.SetLevel(cctx.String("log-level")); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	rt.Logger.Debug("niveau de log", zap.Stringer("level", logger.Level()))
	return nil
}
