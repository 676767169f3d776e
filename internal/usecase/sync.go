package usecase

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

// ReconcileStats — итог одного прохода сверки индекса с хранилищем.
type ReconcileStats struct {
	Checked  int
	Repaired int
	Removed  int
}

// IndexSyncUseCase восстанавливает поисковый индекс по основному хранилищу.
type IndexSyncUseCase interface {
	// HandleReindex пересобирает один документ по задаче из очереди.
	HandleReindex(ctx context.Context, req payloads.ReindexRequest) error

	// ReconcilePets сверяет координаты всех питомцев с индексом, дописывает
	// отсутствующие и расходящиеся документы и удаляет лишние.
	ReconcilePets(ctx context.Context) (ReconcileStats, error)
}
