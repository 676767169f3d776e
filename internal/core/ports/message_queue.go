package ports

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

// ReindexPublisher публикует задачи на пересинхронизацию индекса
type ReindexPublisher interface {
	PublishReindexRequest(ctx context.Context, req payloads.ReindexRequest) error
}

// ReindexConsumer используется воркером для получения задач пересинхронизации
type ReindexConsumer interface {
	StartConsumingReindexRequests(ctx context.Context, handler func(context.Context, payloads.ReindexRequest) error) error
}

// SightingPublisher публикует уведомления владельцам питомцев
type SightingPublisher interface {
	PublishSightingNotification(ctx context.Context, n payloads.SightingNotification) error
}

// SightingConsumer используется воркером для отправки уведомлений
type SightingConsumer interface {
	StartConsumingSightingNotifications(ctx context.Context, handler func(context.Context, payloads.SightingNotification) error) error
}
