package ports

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

// PetIndex — поисковое зеркало питомцев с поддержкой гео-запросов.
// Документы адресуются id из основного хранилища.
type PetIndex interface {
	SavePet(ctx context.Context, doc domain.PetDocument) error
	PartialUpdatePet(ctx context.Context, doc domain.PetDocument) error
	DeletePet(ctx context.Context, id int64) error
	// SearchNearby возвращает документы в радиусе radiusMeters от center, ближайшие первыми.
	SearchNearby(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.PetDocument, error)
	// PetDocuments возвращает сохранённые документы; отсутствующих id нет в карте.
	PetDocuments(ctx context.Context, ids []int64) (map[int64]domain.PetDocument, error)
	IndexedPetIDs(ctx context.Context) ([]int64, error)
}

// UserIndex — поисковое зеркало пользователей.
type UserIndex interface {
	SaveUser(ctx context.Context, doc domain.UserDocument) error
	PartialUpdateUser(ctx context.Context, doc domain.UserDocument) error
}

// ImageStore загружает изображение и возвращает его постоянный URL.
type ImageStore interface {
	// Upload принимает data URI ("data:image/png;base64,...") или голый base64.
	Upload(ctx context.Context, rawImage string) (string, error)
	// IsResolvedURL сообщает, что ref уже является URL из этого хранилища.
	IsResolvedURL(ref string) bool
}

// EmailNotifier отправляет письма владельцам питомцев.
type EmailNotifier interface {
	Send(ctx context.Context, email domain.SightingEmail) error
}
