package ports

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

// PetStorage определяет методы для работы с питомцами в основном хранилище
type PetStorage interface {
	CreatePet(ctx context.Context, pet *domain.Pet) error
	GetPetByID(ctx context.Context, id int64) (*domain.Pet, error)
	// UpdatePet обновляет строку только если совпадают и id, и user_id.
	UpdatePet(ctx context.Context, pet *domain.Pet) error
	DeletePet(ctx context.Context, id, userID int64) error
	ListPetsByUser(ctx context.Context, userID int64) ([]domain.Pet, error)
	// ListPets отдаёт питомцев с id > afterID по возрастанию id (для сверки с индексом).
	ListPets(ctx context.Context, afterID int64, limit int) ([]domain.Pet, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, upd domain.UserUpdate) (*domain.User, error)
}

// CredentialStorage хранит пользователей вместе с их учётными данными.
type CredentialStorage interface {
	// RegisterUser атомарно создаёт пользователя и его учётную запись, заполняя user.ID.
	RegisterUser(ctx context.Context, user *domain.User, passwordHash string) error
	GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error)
}

// ReportStorage определяет методы для работы с сообщениями о найденных питомцах
type ReportStorage interface {
	CreateReport(ctx context.Context, report *domain.Report) error
	GetReportByID(ctx context.Context, id int64) (*domain.Report, error)
}
