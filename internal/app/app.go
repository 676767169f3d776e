package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/PetFinder/internal/config"
	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/usecase"
)

// Deps — всё, что нужно приложению в обоих режимах.
type Deps struct {
	Router           http.Handler
	SyncUseCase      usecase.IndexSyncUseCase
	ReportUseCase    usecase.ReportUseCase
	ReindexConsumer  ports.ReindexConsumer
	SightingConsumer ports.SightingConsumer
	// Closers вызываются при остановке в обратном порядке.
	Closers []func() error
}

type App struct {
	Config *config.Config
	logger *slog.Logger
	deps   Deps
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) *App {
	return &App{
		Config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case "server":
		err = runServer(ctx, fmt.Sprintf(":%s", a.Config.ServerPort), a.deps.Router, a.logger)
	case "worker":
		err = runWorker(ctx, a.logger,
			a.deps.SyncUseCase,
			a.deps.ReportUseCase,
			a.deps.ReindexConsumer,
			a.deps.SightingConsumer,
			a.Config.ReconcileInterval,
		)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.deps.Closers) - 1; i >= 0; i-- {
		if err := a.deps.Closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.deps.Closers = nil
	return errors.Join(errs...)
}
