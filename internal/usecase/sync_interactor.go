package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

const (
	reconcileBatchSize = 500
	coordEpsilon       = 1e-9
)

type indexSyncUseCase struct {
	pets      ports.PetStorage
	users     ports.UserStorage
	petIndex  ports.PetIndex
	userIndex ports.UserIndex
	timeouts  Timeouts
	logger    *slog.Logger
}

// NewIndexSyncUseCase создает IndexSyncUseCase
func NewIndexSyncUseCase(
	pets ports.PetStorage,
	users ports.UserStorage,
	petIndex ports.PetIndex,
	userIndex ports.UserIndex,
	timeouts Timeouts,
	logger *slog.Logger,
) IndexSyncUseCase {
	return &indexSyncUseCase{
		pets:      pets,
		users:     users,
		petIndex:  petIndex,
		userIndex: userIndex,
		timeouts:  timeouts,
		logger:    logger,
	}
}

func (uc *indexSyncUseCase) HandleReindex(ctx context.Context, req payloads.ReindexRequest) error {
	switch req.Entity {
	case payloads.ReindexPet:
		return uc.syncPet(ctx, req.ID)
	case payloads.ReindexUser:
		return uc.syncUser(ctx, req.ID)
	}
	return &domain.ValidationError{Field: "entity", Reason: fmt.Sprintf("unknown entity %q", req.Entity)}
}

// syncPet приводит документ индекса к строке хранилища; отсутствующая строка удаляет документ.
func (uc *indexSyncUseCase) syncPet(ctx context.Context, id int64) error {
	pet, err := uc.pets.GetPetByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("usecase: load pet %d: %w", id, err)
	}

	indexCtx, cancel := withTimeout(ctx, uc.timeouts.Index)
	defer cancel()

	if pet == nil {
		if err := uc.petIndex.DeletePet(indexCtx, id); err != nil {
			return asUpstream("search index", err)
		}
		uc.logger.Info("stale pet document removed", "pet_id", id)
		return nil
	}

	if err := uc.petIndex.SavePet(indexCtx, domain.NewPetDocument(pet)); err != nil {
		return asUpstream("search index", err)
	}
	uc.logger.Info("pet document resynced", "pet_id", id)
	return nil
}

func (uc *indexSyncUseCase) syncUser(ctx context.Context, id int64) error {
	user, err := uc.users.GetUserByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		uc.logger.Warn("reindex requested for missing user", "user_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("usecase: load user %d: %w", id, err)
	}

	indexCtx, cancel := withTimeout(ctx, uc.timeouts.Index)
	defer cancel()
	if err := uc.userIndex.SaveUser(indexCtx, domain.NewUserDocument(user)); err != nil {
		return asUpstream("search index", err)
	}
	uc.logger.Info("user document resynced", "user_id", id)
	return nil
}

func (uc *indexSyncUseCase) ReconcilePets(ctx context.Context) (ReconcileStats, error) {
	start := time.Now()
	var stats ReconcileStats
	seen := make(map[int64]struct{})

	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		page, err := uc.pets.ListPets(ctx, afterID, reconcileBatchSize)
		if err != nil {
			return stats, fmt.Errorf("usecase: list pets after %d: %w", afterID, err)
		}
		if len(page) == 0 {
			break
		}

		ids := make([]int64, len(page))
		for i := range page {
			ids[i] = page[i].ID
			seen[page[i].ID] = struct{}{}
		}

		docs, err := uc.petIndex.PetDocuments(ctx, ids)
		if err != nil {
			return stats, asUpstream("search index", err)
		}

		for i := range page {
			pet := &page[i]
			stats.Checked++
			want := domain.NewPetDocument(pet)
			if doc, ok := docs[pet.ID]; ok && sameDocument(doc, want) {
				continue
			}
			if err := uc.petIndex.SavePet(ctx, want); err != nil {
				uc.logger.Warn("failed to repair pet document", "pet_id", pet.ID, "error", err)
				continue
			}
			stats.Repaired++
		}

		afterID = page[len(page)-1].ID
		if len(page) < reconcileBatchSize {
			break
		}
	}

	indexed, err := uc.petIndex.IndexedPetIDs(ctx)
	if err != nil {
		return stats, asUpstream("search index", err)
	}
	for _, id := range indexed {
		if _, ok := seen[id]; ok {
			continue
		}
		// Питомец мог появиться после прохода по страницам.
		if _, err := uc.pets.GetPetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err := uc.petIndex.DeletePet(ctx, id); err != nil {
			uc.logger.Warn("failed to remove orphan pet document", "pet_id", id, "error", err)
			continue
		}
		stats.Removed++
	}

	uc.logger.Info("index reconciliation finished",
		"checked", stats.Checked,
		"repaired", stats.Repaired,
		"removed", stats.Removed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return stats, nil
}

// sameDocument сравнивает все поля документа; координаты с точностью coordEpsilon.
func sameDocument(a, b domain.PetDocument) bool {
	return a.ObjectID == b.ObjectID &&
		a.PetName == b.PetName &&
		a.PetImgURL == b.PetImgURL &&
		a.PetState == b.PetState &&
		a.UserID == b.UserID &&
		a.PetLocation == b.PetLocation &&
		math.Abs(a.Geoloc.Lat-b.Geoloc.Lat) < coordEpsilon &&
		math.Abs(a.Geoloc.Lng-b.Geoloc.Lng) < coordEpsilon
}
