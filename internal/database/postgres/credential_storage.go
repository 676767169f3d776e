package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"gorm.io/gorm"
)

// GormCredentialStorage реализует интерфейс ports.CredentialStorage с использованием GORM
type GormCredentialStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormCredentialStorage создает новый экземпляр GormCredentialStorage
func NewGormCredentialStorage(db *gorm.DB, logger *slog.Logger) *GormCredentialStorage {
	return &GormCredentialStorage{db: db, logger: logger}
}

// RegisterUser создаёт пользователя и его учётную запись в одной транзакции
func (s *GormCredentialStorage) RegisterUser(ctx context.Context, user *domain.User, passwordHash string) error {
	start := time.Now()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&domain.Credential{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrConflict
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		cred := domain.Credential{
			UserID:       user.ID,
			Email:        user.Email,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&cred).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || isUniqueViolation(err) {
			return fmt.Errorf("register user %q: %w", user.Email, domain.ErrConflict)
		}
		s.logger.Error("failed to register user", "email", user.Email, "error", err)
		return fmt.Errorf("ошибка при регистрации пользователя с GORM: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetCredentialByEmail ищет учётную запись по email
func (s *GormCredentialStorage) GetCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("credential %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске учётной записи с GORM: %w", err)
	}
	return &cred, nil
}

// pgx, на котором работает драйвер gorm, отдаёт SQLSTATE в тексте ошибки.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "SQLSTATE 23505")
}
