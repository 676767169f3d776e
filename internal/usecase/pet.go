package usecase

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

// CreatePetInput — данные нового объявления.
// Image — data URI или base64; координаты обязательны.
type CreatePetInput struct {
	UserID      int64
	PetName     string
	Image       string
	PetState    string
	PetLat      *float64
	PetLong     *float64
	PetLocation string
}

// UpdatePetInput — новое состояние объявления. Пустой Image оставляет текущее изображение.
type UpdatePetInput struct {
	ID          int64
	UserID      int64
	PetName     string
	Image       string
	PetState    string
	PetLat      *float64
	PetLong     *float64
	PetLocation string
}

// PetResult — результат записи питомца.
// IndexErr не пуст, если основное хранилище обновлено, а поисковый индекс нет.
type PetResult struct {
	Pet      *domain.Pet
	IndexErr error
}

// DeleteResult — результат удаления питомца.
type DeleteResult struct {
	IndexErr error
}

// PetUseCase определяет бизнес-логику жизненного цикла объявлений о питомцах
type PetUseCase interface {
	// CreatePet загружает изображение, сохраняет питомца и зеркалирует его в индекс.
	CreatePet(ctx context.Context, in CreatePetInput) (*PetResult, error)

	// UpdatePet меняет питомца, принадлежащего in.UserID.
	UpdatePet(ctx context.Context, in UpdatePetInput) (*PetResult, error)

	// DeletePet удаляет питомца владельца userID из хранилища и индекса.
	DeletePet(ctx context.Context, id, userID int64) (*DeleteResult, error)

	// GetAllPets возвращает питомцев пользователя в порядке создания.
	GetAllPets(ctx context.Context, userID int64) ([]domain.Pet, error)
}

// NearbyUseCase — поиск питомцев по радиусу.
type NearbyUseCase interface {
	// NearbyPets ищет питомцев в радиусе radiusMeters; radiusMeters <= 0 означает радиус по умолчанию.
	NearbyPets(ctx context.Context, lat, lng, radiusMeters float64) ([]domain.NearbyPet, error)
}
