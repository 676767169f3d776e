package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

// Timeouts ограничивает время вызовов внешних сервисов. Ноль отключает ограничение.
type Timeouts struct {
	ImageUpload time.Duration
	Index       time.Duration
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// asUpstream помечает ошибку внешнего сервиса, если адаптер этого ещё не сделал.
func asUpstream(service string, err error) error {
	if err == nil || errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return domain.Upstream(service, err)
}

// indexRepair ставит в очередь пересинхронизацию документа, запись которого в индекс не удалась.
type indexRepair struct {
	publisher ports.ReindexPublisher
	logger    *slog.Logger
}

func (r indexRepair) schedule(ctx context.Context, entity payloads.ReindexEntity, id int64, cause error) {
	r.logger.Warn("search index write failed, scheduling reindex",
		"entity", string(entity),
		"id", id,
		"error", cause,
	)
	if r.publisher == nil {
		return
	}
	req := payloads.ReindexRequest{Entity: entity, ID: id, Reason: cause.Error()}
	if err := r.publisher.PublishReindexRequest(context.WithoutCancel(ctx), req); err != nil {
		r.logger.Error("failed to publish reindex request", "entity", string(entity), "id", id, "error", err)
	}
}
