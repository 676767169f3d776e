package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/logger"
	"github.com/GoArmGo/PetFinder/internal/messaging/payloads"
)

var testLogger = logger.Discard()

func ptr(f float64) *float64 { return &f }

// memPets — хранилище питомцев в памяти с теми же правилами, что у Postgres.
type memPets struct {
	mu     sync.Mutex
	rows   map[int64]domain.Pet
	nextID int64
	users  *memUsers

	createErr   error
	updateCalls int
	deleteCalls int
}

func newMemPets(users *memUsers) *memPets {
	return &memPets{rows: map[int64]domain.Pet{}, users: users}
}

func (m *memPets) CreatePet(_ context.Context, pet *domain.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.users != nil {
		if _, ok := m.users.rows[pet.UserID]; !ok {
			return domain.ErrNotFound
		}
	}
	m.nextID++
	pet.ID = m.nextID
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	m.rows[pet.ID] = *pet
	return nil
}

func (m *memPets) GetPetByID(_ context.Context, id int64) (*domain.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memPets) UpdatePet(_ context.Context, pet *domain.Pet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	cur, ok := m.rows[pet.ID]
	if !ok || cur.UserID != pet.UserID {
		return domain.ErrNotFound
	}
	pet.CreatedAt = cur.CreatedAt
	m.rows[pet.ID] = *pet
	return nil
}

func (m *memPets) DeletePet(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	cur, ok := m.rows[id]
	if !ok || cur.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memPets) ListPetsByUser(_ context.Context, userID int64) ([]domain.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Pet{}
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPets) ListPets(_ context.Context, afterID int64, limit int) ([]domain.Pet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Pet{}
	for _, p := range m.rows {
		if p.ID > afterID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUsers struct {
	rows map[int64]domain.User
}

func newMemUsers(users ...domain.User) *memUsers {
	m := &memUsers{rows: map[int64]domain.User{}}
	for _, u := range users {
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) UpdateUser(_ context.Context, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := m.rows[upd.UserID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Fullname, u.Localidad = upd.Fullname, upd.Localidad
	u.UserLat, u.UserLong = upd.UserLat, upd.UserLong
	m.rows[u.ID] = u
	return &u, nil
}

// memPetIndex — индекс в памяти; точка на границе радиуса включается.
type memPetIndex struct {
	mu   sync.Mutex
	docs map[int64]domain.PetDocument

	saveErr   error
	updateErr error
	deleteErr error
	searchErr error

	deleted []int64
}

func newMemPetIndex() *memPetIndex {
	return &memPetIndex{docs: map[int64]domain.PetDocument{}}
}

func (m *memPetIndex) SavePet(_ context.Context, doc domain.PetDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.ObjectID] = doc
	return nil
}

func (m *memPetIndex) PartialUpdatePet(_ context.Context, doc domain.PetDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.docs[doc.ObjectID] = doc
	return nil
}

func (m *memPetIndex) DeletePet(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.docs, id)
	return nil
}

func (m *memPetIndex) SearchNearby(_ context.Context, center domain.GeoPoint, radius float64) ([]domain.PetDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var out []domain.PetDocument
	for _, d := range m.docs {
		if center.DistanceMeters(d.Geoloc) <= radius {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return center.DistanceMeters(out[i].Geoloc) < center.DistanceMeters(out[j].Geoloc)
	})
	return out, nil
}

func (m *memPetIndex) PetDocuments(_ context.Context, ids []int64) (map[int64]domain.PetDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64]domain.PetDocument{}
	for _, id := range ids {
		if d, ok := m.docs[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (m *memPetIndex) IndexedPetIDs(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type memUserIndex struct {
	docs    map[int64]domain.UserDocument
	saveErr error
}

func newMemUserIndex() *memUserIndex {
	return &memUserIndex{docs: map[int64]domain.UserDocument{}}
}

func (m *memUserIndex) SaveUser(_ context.Context, doc domain.UserDocument) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.ObjectID] = doc
	return nil
}

func (m *memUserIndex) PartialUpdateUser(ctx context.Context, doc domain.UserDocument) error {
	return m.SaveUser(ctx, doc)
}

const imgPrefix = "https://img.test/pets/"

// fakeImages адресует изображения по содержимому, как настоящее хранилище.
type fakeImages struct {
	uploads   int
	uploadErr error
}

func (f *fakeImages) Upload(_ context.Context, raw string) (string, error) {
	f.uploads++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	sum := sha256.Sum256([]byte(raw))
	return imgPrefix + hex.EncodeToString(sum[:8]) + ".png", nil
}

func (f *fakeImages) IsResolvedURL(ref string) bool {
	return strings.HasPrefix(ref, imgPrefix)
}

type fakeReindex struct {
	requests []payloads.ReindexRequest
}

func (f *fakeReindex) PublishReindexRequest(_ context.Context, req payloads.ReindexRequest) error {
	f.requests = append(f.requests, req)
	return nil
}

type fakeSightings struct {
	published []payloads.SightingNotification
	err       error
}

func (f *fakeSightings) PublishSightingNotification(_ context.Context, n payloads.SightingNotification) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

type fakeNotifier struct {
	SendFunc func(ctx context.Context, email domain.SightingEmail) error
}

func (f *fakeNotifier) Send(ctx context.Context, email domain.SightingEmail) error {
	return f.SendFunc(ctx, email)
}

type memReports struct {
	rows   map[int64]domain.Report
	nextID int64
}

func newMemReports() *memReports {
	return &memReports{rows: map[int64]domain.Report{}}
}

func (m *memReports) CreateReport(_ context.Context, r *domain.Report) error {
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.rows[r.ID] = *r
	return nil
}

func (m *memReports) GetReportByID(_ context.Context, id int64) (*domain.Report, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

type memCreds struct {
	users  *memUsers
	byMail map[string]domain.Credential
}

func newMemCreds(users *memUsers) *memCreds {
	return &memCreds{users: users, byMail: map[string]domain.Credential{}}
}

func (m *memCreds) RegisterUser(_ context.Context, user *domain.User, hash string) error {
	if _, ok := m.byMail[user.Email]; ok {
		return domain.ErrConflict
	}
	user.ID = int64(len(m.users.rows) + 1)
	m.users.rows[user.ID] = *user
	m.byMail[user.Email] = domain.Credential{UserID: user.ID, Email: user.Email, PasswordHash: hash}
	return nil
}

func (m *memCreds) GetCredentialByEmail(_ context.Context, email string) (*domain.Credential, error) {
	c, ok := m.byMail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}
