package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCredentialMock(t *testing.T) (*GormCredentialStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := OpenGorm(db)
	require.NoError(t, err)
	return NewGormCredentialStorage(gdb, logger.Discard()), mock
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	s, mock := setupCredentialMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "auths" WHERE email = $1`)).
		WithArgs("ana@mail.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := s.RegisterUser(context.Background(), &domain.User{Email: "ana@mail.com"}, "hash")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCredentialByEmail_NotFound(t *testing.T) {
	s, mock := setupCredentialMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "auths" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "password", "created_at", "updated_at"}))

	_, err := s.GetCredentialByEmail(context.Background(), "nobody@mail.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
