package usecase

import (
	"context"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

// RegisterInput — данные регистрации.
type RegisterInput struct {
	Fullname  string
	Email     string
	Password  string
	Localidad string
}

// UserResult — результат записи пользователя; IndexErr как у PetResult.
type UserResult struct {
	User     *domain.User
	IndexErr error
}

// UserUseCase определяет бизнес-логику работы с пользователями
type UserUseCase interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*UserResult, error)
	// Authenticate проверяет пароль; при любом несовпадении возвращает ErrUnauthorized.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUserData(ctx context.Context, upd domain.UserUpdate) (*UserResult, error)
}
