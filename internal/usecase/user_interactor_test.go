package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

type userFixture struct {
	users   *memUsers
	creds   *memCreds
	index   *memUserIndex
	reindex *fakeReindex
	uc      UserUseCase
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:   newMemUsers(),
		index:   newMemUserIndex(),
		reindex: &fakeReindex{},
	}
	f.creds = newMemCreds(f.users)
	uc := NewUserUseCase(f.users, f.creds, f.index, f.reindex, Timeouts{}, testLogger).(*userUseCase)
	uc.hashCost = bcrypt.MinCost
	f.uc = uc
	return f
}

func register(t *testing.T, f *userFixture) *domain.User {
	t.Helper()
	res, err := f.uc.RegisterUser(context.Background(), RegisterInput{
		Fullname: "Ana", Email: " Ana@Mail.com ", Password: "secret1", Localidad: "CABA",
	})
	require.NoError(t, err)
	return res.User
}

func TestRegisterUser_StoresHashAndMirrors(t *testing.T) {
	f := newUserFixture()
	user := register(t, f)

	assert.Equal(t, "ana@mail.com", user.Email)
	cred := f.creds.byMail["ana@mail.com"]
	assert.NotEqual(t, "secret1", cred.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte("secret1")))

	doc, ok := f.index.docs[user.ID]
	require.True(t, ok)
	assert.Equal(t, "CABA", doc.Localidad)
	assert.Nil(t, doc.Geoloc)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	f := newUserFixture()
	register(t, f)

	_, err := f.uc.RegisterUser(context.Background(), RegisterInput{Email: "ana@mail.com", Password: "another1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterUser_Validation(t *testing.T) {
	f := newUserFixture()

	_, err := f.uc.RegisterUser(context.Background(), RegisterInput{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.uc.RegisterUser(context.Background(), RegisterInput{Email: "a@b.c", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.users.rows)
}

func TestAuthenticate(t *testing.T) {
	f := newUserFixture()
	user := register(t, f)

	got, err := f.uc.Authenticate(context.Background(), "ANA@mail.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.uc.Authenticate(context.Background(), "ana@mail.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Authenticate(context.Background(), "nobody@mail.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateUserData_MirrorsGeoPoint(t *testing.T) {
	f := newUserFixture()
	user := register(t, f)

	res, err := f.uc.UpdateUserData(context.Background(), domain.UserUpdate{
		UserID: user.ID, Fullname: "Ana B", Localidad: "Rosario", UserLat: ptr(-32.95), UserLong: ptr(-60.65),
	})
	require.NoError(t, err)
	assert.NoError(t, res.IndexErr)
	assert.Equal(t, "Ana B", res.User.Fullname)
	assert.Equal(t, &domain.GeoPoint{Lat: -32.95, Lng: -60.65}, f.index.docs[user.ID].Geoloc)
}

func TestUpdateUserData_IndexFailureReturnedNotReverted(t *testing.T) {
	f := newUserFixture()
	user := register(t, f)
	f.index.saveErr = errors.New("index down")

	res, err := f.uc.UpdateUserData(context.Background(), domain.UserUpdate{UserID: user.ID, Fullname: "Ana B"})
	require.NoError(t, err)
	assert.ErrorIs(t, res.IndexErr, domain.ErrUpstream)
	assert.Equal(t, "Ana B", f.users.rows[user.ID].Fullname)
	require.Len(t, f.reindex.requests, 1)
	assert.Equal(t, payloads.ReindexUser, f.reindex.requests[0].Entity)
}

func TestUpdateUserData_Errors(t *testing.T) {
	f := newUserFixture()

	_, err := f.uc.UpdateUserData(context.Background(), domain.UserUpdate{UserID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.UpdateUserData(context.Background(), domain.UserUpdate{UserID: 1, UserLat: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
