package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, fullname, email, localidad, user_lat, user_long, created_at, updated_at`

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger, now: time.Now}
}

// GetUserByID получает пользователя по ID.
func (s *UserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, mapError("select user", err)
	}
	return &user, nil
}

// UpdateUser меняет личные данные и возвращает обновлённую строку.
func (s *UserStorage) UpdateUser(ctx context.Context, upd domain.UserUpdate) (*domain.User, error) {
	start := time.Now()

	query := `
	UPDATE users
	SET fullname = $2, localidad = $3, user_lat = $4, user_long = $5, updated_at = $6
	WHERE id = $1
	RETURNING ` + userColumns

	var user domain.User
	err := s.db.GetContext(ctx, &user, query,
		upd.UserID, upd.Fullname, upd.Localidad, upd.UserLat, upd.UserLong, s.now().UTC(),
	)
	if err != nil {
		s.logger.Error("failed to update user", "user_id", upd.UserID, "error", err)
		return nil, mapError("update user", err)
	}

	s.logger.Info("user updated successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
