package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

// petUseCase implements PetUseCase
type petUseCase struct {
	pets     ports.PetStorage
	users    ports.UserStorage
	index    ports.PetIndex
	images   ports.ImageStore
	repair   indexRepair
	timeouts Timeouts
	logger   *slog.Logger
}

// NewPetUseCase создает новый экземпляр PetUseCase
func NewPetUseCase(
	pets ports.PetStorage,
	users ports.UserStorage,
	index ports.PetIndex,
	images ports.ImageStore,
	reindex ports.ReindexPublisher,
	timeouts Timeouts,
	logger *slog.Logger,
) PetUseCase {
	return &petUseCase{
		pets:     pets,
		users:    users,
		index:    index,
		images:   images,
		repair:   indexRepair{publisher: reindex, logger: logger},
		timeouts: timeouts,
		logger:   logger,
	}
}

type petFields struct {
	name     string
	state    domain.PetState
	lat, lng float64
	location string
}

func validatePetFields(name, state string, lat, lng *float64, location string) (petFields, error) {
	f := petFields{name: strings.TrimSpace(name), location: strings.TrimSpace(location)}
	if f.name == "" {
		return f, &domain.ValidationError{Field: "petName", Reason: "required"}
	}
	if lat == nil || lng == nil {
		return f, &domain.ValidationError{Field: "petLat/petLong", Reason: "coordinates are required"}
	}
	gp := domain.GeoPoint{Lat: *lat, Lng: *lng}
	if err := gp.Validate(); err != nil {
		return f, err
	}
	st, err := domain.ParsePetState(state)
	if err != nil {
		return f, err
	}
	f.state, f.lat, f.lng = st, gp.Lat, gp.Lng
	return f, nil
}

// CreatePet проверяет владельца, загружает изображение, пишет строку и затем документ индекса.
// Ошибка индекса не отменяет созданную строку и возвращается в PetResult.IndexErr.
func (uc *petUseCase) CreatePet(ctx context.Context, in CreatePetInput) (*PetResult, error) {
	start := time.Now()

	f, err := validatePetFields(in.PetName, in.PetState, in.PetLat, in.PetLong, in.PetLocation)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Image) == "" {
		return nil, &domain.ValidationError{Field: "petImgURL", Reason: "image is required"}
	}

	if _, err := uc.users.GetUserByID(ctx, in.UserID); err != nil {
		return nil, fmt.Errorf("usecase: owner %d: %w", in.UserID, err)
	}

	imgURL, err := uc.resolveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	pet := &domain.Pet{
		UserID:      in.UserID,
		PetName:     f.name,
		PetImgURL:   imgURL,
		PetState:    f.state,
		PetLat:      f.lat,
		PetLong:     f.lng,
		PetLocation: f.location,
	}
	if err := uc.pets.CreatePet(ctx, pet); err != nil {
		return nil, fmt.Errorf("usecase: create pet: %w", err)
	}

	res := &PetResult{Pet: pet}
	indexCtx, cancel := withTimeout(ctx, uc.timeouts.Index)
	defer cancel()
	if err := uc.index.SavePet(indexCtx, domain.NewPetDocument(pet)); err != nil {
		res.IndexErr = asUpstream("search index", err)
		uc.repair.schedule(ctx, payloads.ReindexPet, pet.ID, res.IndexErr)
	}

	uc.logger.Info("pet created",
		"pet_id", pet.ID,
		"user_id", pet.UserID,
		"indexed", res.IndexErr == nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// UpdatePet требует, чтобы питомец существовал и принадлежал in.UserID, до любых записей.
// Изображение загружается заново, только если передано новое содержимое.
func (uc *petUseCase) UpdatePet(ctx context.Context, in UpdatePetInput) (*PetResult, error) {
	f, err := validatePetFields(in.PetName, in.PetState, in.PetLat, in.PetLong, in.PetLocation)
	if err != nil {
		return nil, err
	}

	existing, err := uc.pets.GetPetByID(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: pet %d: %w", in.ID, err)
	}
	if existing.UserID != in.UserID {
		return nil, fmt.Errorf("usecase: pet %d is not owned by user %d: %w", in.ID, in.UserID, domain.ErrForbidden)
	}

	imgURL := existing.PetImgURL
	if img := strings.TrimSpace(in.Image); img != "" {
		if imgURL, err = uc.resolveImage(ctx, img); err != nil {
			return nil, err
		}
	}

	pet := *existing
	pet.PetName = f.name
	pet.PetImgURL = imgURL
	pet.PetState = f.state
	pet.PetLat, pet.PetLong = f.lat, f.lng
	pet.PetLocation = f.location

	if err := uc.pets.UpdatePet(ctx, &pet); err != nil {
		return nil, fmt.Errorf("usecase: update pet %d: %w", in.ID, err)
	}

	res := &PetResult{Pet: &pet}
	indexCtx, cancel := withTimeout(ctx, uc.timeouts.Index)
	defer cancel()
	if err := uc.index.PartialUpdatePet(indexCtx, domain.NewPetDocument(&pet)); err != nil {
		res.IndexErr = asUpstream("search index", err)
		uc.repair.schedule(ctx, payloads.ReindexPet, pet.ID, res.IndexErr)
	}

	uc.logger.Info("pet updated", "pet_id", pet.ID, "indexed", res.IndexErr == nil)
	return res, nil
}

// DeletePet удаляет питомца владельца. Для отсутствующего id документ индекса
// всё равно удаляется, а вызывающий получает ErrNotFound.
func (uc *petUseCase) DeletePet(ctx context.Context, id, userID int64) (*DeleteResult, error) {
	existing, err := uc.pets.GetPetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		uc.deleteFromIndex(ctx, id)
		return nil, fmt.Errorf("usecase: pet %d: %w", id, err)
	case err != nil:
		return nil, fmt.Errorf("usecase: pet %d: %w", id, err)
	case existing.UserID != userID:
		return nil, fmt.Errorf("usecase: pet %d is not owned by user %d: %w", id, userID, domain.ErrForbidden)
	}

	if err := uc.pets.DeletePet(ctx, id, userID); err != nil {
		return nil, fmt.Errorf("usecase: delete pet %d: %w", id, err)
	}

	res := &DeleteResult{IndexErr: uc.deleteFromIndex(ctx, id)}
	uc.logger.Info("pet deleted", "pet_id", id, "user_id", userID, "indexed", res.IndexErr == nil)
	return res, nil
}

func (uc *petUseCase) deleteFromIndex(ctx context.Context, id int64) error {
	indexCtx, cancel := withTimeout(ctx, uc.timeouts.Index)
	defer cancel()
	if err := uc.index.DeletePet(indexCtx, id); err != nil {
		err = asUpstream("search index", err)
		uc.repair.schedule(ctx, payloads.ReindexPet, id, err)
		return err
	}
	return nil
}

// GetAllPets возвращает питомцев пользователя
func (uc *petUseCase) GetAllPets(ctx context.Context, userID int64) ([]domain.Pet, error) {
	if userID <= 0 {
		return nil, &domain.ValidationError{Field: "userId", Reason: "must be positive"}
	}
	pets, err := uc.pets.ListPetsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: list pets of user %d: %w", userID, err)
	}
	return pets, nil
}

// resolveImage возвращает URL хранилища: готовый URL оставляется как есть, остальное загружается.
func (uc *petUseCase) resolveImage(ctx context.Context, raw string) (string, error) {
	if uc.images.IsResolvedURL(raw) {
		return raw, nil
	}

	uploadCtx, cancel := withTimeout(ctx, uc.timeouts.ImageUpload)
	defer cancel()

	url, err := uc.images.Upload(uploadCtx, raw)
	if err != nil {
		return "", fmt.Errorf("usecase: upload pet image: %w", asUpstream("image store", err))
	}
	return url, nil
}
