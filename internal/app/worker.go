package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
	"github.com/GoArmGo/PetFinder/internal/usecase"
)

// runWorker обрабатывает очереди пересинхронизации и уведомлений
// и периодически сверяет индекс с хранилищем.
func runWorker(
	ctx context.Context,
	logger *slog.Logger,
	syncUseCase usecase.IndexSyncUseCase,
	reportUseCase usecase.ReportUseCase,
	reindexConsumer ports.ReindexConsumer,
	sightingConsumer ports.SightingConsumer,
	reconcileInterval time.Duration,
) error {
	logger.Info("worker started, waiting for messages")

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return reindexConsumer.StartConsumingReindexRequests(groupCtx, func(ctx context.Context, req payloads.ReindexRequest) error {
			logger.Info("reindex request received", "entity", string(req.Entity), "id", req.ID, "reason", req.Reason)
			return syncUseCase.HandleReindex(ctx, req)
		})
	})

	g.Go(func() error {
		return sightingConsumer.StartConsumingSightingNotifications(groupCtx, func(ctx context.Context, n payloads.SightingNotification) error {
			return reportUseCase.DeliverSighting(ctx, n)
		})
	})

	g.Go(func() error {
		runReconcileLoop(groupCtx, syncUseCase, reconcileInterval, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}

// runReconcileLoop выполняет сверку сразу и затем каждые interval до отмены ctx.
func runReconcileLoop(ctx context.Context, syncUseCase usecase.IndexSyncUseCase, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		logger.Info("index reconciliation disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := syncUseCase.ReconcilePets(ctx); err != nil && ctx.Err() == nil {
			logger.Error("index reconciliation failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
