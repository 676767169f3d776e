package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/jmoiron/sqlx"
)

const petColumns = `id, user_id, pet_name, pet_img_url, pet_state, pet_lat, pet_long, pet_location, created_at, updated_at`

type PetStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewPetStorage(db *sqlx.DB, logger *slog.Logger) *PetStorage {
	return &PetStorage{db: db, logger: logger, now: time.Now}
}

// CreatePet сохраняет питомца и заполняет его ID
func (s *PetStorage) CreatePet(ctx context.Context, pet *domain.Pet) error {
	start := time.Now()

	now := s.now().UTC()
	pet.CreatedAt, pet.UpdatedAt = now, now

	query := `
	INSERT INTO pets (user_id, pet_name, pet_img_url, pet_state, pet_lat, pet_long, pet_location, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id
	`

	err := s.db.QueryRowxContext(ctx, query,
		pet.UserID, pet.PetName, pet.PetImgURL, string(pet.PetState),
		pet.PetLat, pet.PetLong, pet.PetLocation, pet.CreatedAt, pet.UpdatedAt,
	).Scan(&pet.ID)
	if err != nil {
		s.logger.Error("failed to insert pet", "user_id", pet.UserID, "error", err)
		return mapError("insert pet", err)
	}

	s.logger.Info("pet saved successfully",
		"pet_id", pet.ID,
		"user_id", pet.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetPetByID получает питомца по ID
func (s *PetStorage) GetPetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	var pet domain.Pet
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1`

	if err := s.db.GetContext(ctx, &pet, query, id); err != nil {
		return nil, mapError("select pet", err)
	}
	return &pet, nil
}

// UpdatePet обновляет питомца, принадлежащего pet.UserID
func (s *PetStorage) UpdatePet(ctx context.Context, pet *domain.Pet) error {
	start := time.Now()
	pet.UpdatedAt = s.now().UTC()

	query := `
	UPDATE pets
	SET pet_name = $3, pet_img_url = $4, pet_state = $5, pet_lat = $6, pet_long = $7, pet_location = $8, updated_at = $9
	WHERE id = $1 AND user_id = $2
	`

	res, err := s.db.ExecContext(ctx, query,
		pet.ID, pet.UserID, pet.PetName, pet.PetImgURL, string(pet.PetState),
		pet.PetLat, pet.PetLong, pet.PetLocation, pet.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to update pet", "pet_id", pet.ID, "error", err)
		return mapError("update pet", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError("update pet", domain.ErrNotFound)
	}

	s.logger.Info("pet updated successfully",
		"pet_id", pet.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeletePet удаляет питомца вместе с его сообщениями
func (s *PetStorage) DeletePet(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		s.logger.Error("failed to delete pet", "pet_id", id, "error", err)
		return mapError("delete pet", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return mapError("delete pet", domain.ErrNotFound)
	}
	s.logger.Info("pet deleted", "pet_id", id, "user_id", userID)
	return nil
}

// ListPetsByUser возвращает питомцев пользователя в порядке создания
func (s *PetStorage) ListPetsByUser(ctx context.Context, userID int64) ([]domain.Pet, error) {
	pets := []domain.Pet{}
	query := `SELECT ` + petColumns + ` FROM pets WHERE user_id = $1 ORDER BY id ASC`

	if err := s.db.SelectContext(ctx, &pets, query, userID); err != nil {
		s.logger.Error("failed to list pets", "user_id", userID, "error", err)
		return nil, mapError("list pets by user", err)
	}
	return pets, nil
}

// ListPets отдаёт страницу питомцев после afterID
func (s *PetStorage) ListPets(ctx context.Context, afterID int64, limit int) ([]domain.Pet, error) {
	pets := []domain.Pet{}
	query := `SELECT ` + petColumns + ` FROM pets WHERE id > $1 ORDER BY id ASC LIMIT $2`

	if err := s.db.SelectContext(ctx, &pets, query, afterID, limit); err != nil {
		return nil, mapError("list pets", err)
	}
	return pets, nil
}
