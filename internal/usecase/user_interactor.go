package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

const minPasswordLen = 6

type userUseCase struct {
	users    ports.UserStorage
	creds    ports.CredentialStorage
	index    ports.UserIndex
	repair   indexRepair
	timeouts Timeouts
	hashCost int
	logger   *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	users ports.UserStorage,
	creds ports.CredentialStorage,
	index ports.UserIndex,
	reindex ports.ReindexPublisher,
	timeouts Timeouts,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		users:    users,
		creds:    creds,
		index:    index,
		repair:   indexRepair{publisher: reindex, logger: logger},
		timeouts: timeouts,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RegisterUser создаёт пользователя и учётную запись, затем зеркалирует пользователя в индекс.
func (uc *userUseCase) RegisterUser(ctx context.Context, in RegisterInput) (*UserResult, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "invalid address"}
	}
	if len(in.Password) < minPasswordLen {
		return nil, &domain.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("usecase: hash password: %w", err)
	}

	user := &domain.User{
		Fullname:  strings.TrimSpace(in.Fullname),
		Email:     email,
		Localidad: strings.TrimSpace(in.Localidad),
	}
	if err := uc.creds.RegisterUser(ctx, user, string(hash)); err != nil {
		return nil, fmt.Errorf("usecase: register %q: %w", email, err)
	}

	res := &UserResult{User: user, IndexErr: uc.mirror(ctx, user, true)}
	uc.logger.Info("user registered", "user_id", user.ID, "indexed", res.IndexErr == nil)
	return res, nil
}

func (uc *userUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	cred, err := uc.creds.GetCredentialByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: lookup credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetUserByID(ctx, cred.UserID)
	if err != nil {
		return nil, fmt.Errorf("usecase: user %d: %w", cred.UserID, err)
	}
	return user, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: user %d: %w", id, err)
	}
	return user, nil
}

// UpdateUserData обновляет строку пользователя и частично обновляет его документ в индексе.
// Ошибка индекса возвращается в UserResult.IndexErr, изменение в хранилище остаётся.
func (uc *userUseCase) UpdateUserData(ctx context.Context, upd domain.UserUpdate) (*UserResult, error) {
	if upd.UserID <= 0 {
		return nil, &domain.ValidationError{Field: "userId", Reason: "must be positive"}
	}
	if (upd.UserLat == nil) != (upd.UserLong == nil) {
		return nil, &domain.ValidationError{Field: "userLat/userLong", Reason: "both coordinates must be set together"}
	}
	if upd.UserLat != nil {
		if err := (domain.GeoPoint{Lat: *upd.UserLat, Lng: *upd.UserLong}).Validate(); err != nil {
			return nil, err
		}
	}
	upd.Fullname = strings.TrimSpace(upd.Fullname)
	upd.Localidad = strings.TrimSpace(upd.Localidad)

	user, err := uc.users.UpdateUser(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("usecase: update user %d: %w", upd.UserID, err)
	}

	res := &UserResult{User: user, IndexErr: uc.mirror(ctx, user, false)}
	uc.logger.Info("user data updated", "user_id", user.ID, "indexed", res.IndexErr == nil)
	return res, nil
}

func (uc *userUseCase) mirror(ctx context.Context, user *domain.User, replace bool) error {
	indexCtx, cancel := withTimeout(ctx, uc.timeouts.Index)
	defer cancel()

	doc := domain.NewUserDocument(user)
	var err error
	if replace {
		err = uc.index.SaveUser(indexCtx, doc)
	} else {
		err = uc.index.PartialUpdateUser(indexCtx, doc)
	}
	if err != nil {
		err = asUpstream("search index", err)
		uc.repair.schedule(ctx, payloads.ReindexUser, user.ID, err)
	}
	return err
}
