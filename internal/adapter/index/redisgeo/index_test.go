package redisgeo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/logger"
)

// radiusClient отвечает на GEOSEARCH ... BYRADIUS через GEORADIUS:
// miniredis не знает GEOSEARCH, а выборка по кругу у команд одинаковая.
type radiusClient struct {
	*redis.Client
}

func (c radiusClient) GeoSearchLocation(ctx context.Context, key string, q *redis.GeoSearchLocationQuery) *redis.GeoSearchLocationCmd {
	locs, err := c.Client.GeoRadius(ctx, key, q.Longitude, q.Latitude, &redis.GeoRadiusQuery{
		Radius:   q.Radius,
		Unit:     q.RadiusUnit,
		WithDist: q.WithDist,
		Sort:     q.Sort,
	}).Result()

	cmd := redis.NewGeoSearchLocationCmd(ctx, q)
	cmd.SetVal(locs)
	cmd.SetErr(err)
	return cmd
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, radiusClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, radiusClient{Client: rdb}
}

var obelisco = domain.GeoPoint{Lat: -34.6037, Lng: -58.3816}

func petDoc(id int64, lat, lng float64) domain.PetDocument {
	return domain.PetDocument{
		ObjectID:    id,
		PetName:     "Firulais",
		PetImgURL:   "https://img.test/pets/a.png",
		PetState:    domain.PetStateLost,
		Geoloc:      domain.GeoPoint{Lat: lat, Lng: lng},
		UserID:      7,
		PetLocation: "Palermo",
	}
}

func TestPetIndex_SaveAndRead(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewPetIndex(rdb, logger.Discard())
	ctx := context.Background()

	doc := petDoc(1, -34.6, -58.4)
	require.NoError(t, idx.SavePet(ctx, doc))

	docs, err := idx.PetDocuments(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int64]domain.PetDocument{1: doc}, docs)

	ids, err := idx.IndexedPetIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	empty, err := idx.PetDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPetIndex_PartialUpdateMovesPoint(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewPetIndex(rdb, logger.Discard())
	ctx := context.Background()

	require.NoError(t, idx.SavePet(ctx, petDoc(1, -34.6, -58.4)))

	moved := petDoc(1, 10, 20)
	moved.PetState = domain.PetStateFound
	require.NoError(t, idx.PartialUpdatePet(ctx, moved))

	docs, err := idx.PetDocuments(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, moved, docs[1])

	near, err := idx.SearchNearby(ctx, domain.GeoPoint{Lat: 10, Lng: 20}, 100)
	require.NoError(t, err)
	require.Len(t, near, 1)

	old, err := idx.SearchNearby(ctx, domain.GeoPoint{Lat: -34.6, Lng: -58.4}, 1000)
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestPetIndex_Delete(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewPetIndex(rdb, logger.Discard())
	ctx := context.Background()

	require.NoError(t, idx.SavePet(ctx, petDoc(1, -34.6, -58.4)))
	require.NoError(t, idx.DeletePet(ctx, 1))
	require.NoError(t, idx.DeletePet(ctx, 1), "deleting an absent document is not an error")

	n, err := rdb.Exists(ctx, petKey(1)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	ids, err := idx.IndexedPetIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPetIndex_SearchNearby(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewPetIndex(rdb, logger.Discard())
	ctx := context.Background()

	edge := petDoc(1, -34.6100, -58.3816)
	closer := petDoc(2, -34.6050, -58.3816)
	far := petDoc(3, 0, 0)
	for _, d := range []domain.PetDocument{edge, closer, far} {
		require.NoError(t, idx.SavePet(ctx, d))
	}

	edgeDist := obelisco.DistanceMeters(edge.Geoloc)

	got, err := idx.SearchNearby(ctx, obelisco, edgeDist)
	require.NoError(t, err)
	require.Len(t, got, 2, "point exactly on the radius is included")
	assert.Equal(t, int64(2), got[0].ObjectID)
	assert.Equal(t, int64(1), got[1].ObjectID)
	assert.Equal(t, edge, got[1])

	got, err = idx.SearchNearby(ctx, obelisco, edgeDist-0.5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ObjectID)

	none, err := idx.SearchNearby(ctx, domain.GeoPoint{Lat: 40, Lng: 40}, 20000)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPetIndex_RejectedWritesKeepSearchAvailable(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewPetIndex(rdb, logger.Discard())
	ctx := context.Background()

	require.NoError(t, idx.SavePet(ctx, petDoc(1, -34.6, -58.4)))

	for i := 0; i < 10; i++ {
		err := idx.SavePet(ctx, petDoc(2, 88, 10))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.Contains(t, err.Error(), "invalid longitude,latitude pair")
	}

	got, err := idx.SearchNearby(ctx, domain.GeoPoint{Lat: -34.6, Lng: -58.4}, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, idx.SavePet(ctx, petDoc(3, -34.61, -58.41)))
}

func TestPetIndex_Unavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	idx := NewPetIndex(rdb, logger.Discard())
	mr.Close()

	_, err := idx.SearchNearby(context.Background(), obelisco, 1000)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	err = idx.SavePet(context.Background(), petDoc(1, -34.6, -58.4))
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestUserIndex_ClearsLocation(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewUserIndex(rdb, logger.Discard())
	ctx := context.Background()

	located := domain.UserDocument{
		ObjectID:  5,
		Fullname:  "Ana",
		Email:     "ana@example.com",
		Localidad: "Palermo",
		Geoloc:    &domain.GeoPoint{Lat: 1, Lng: 2},
	}
	require.NoError(t, idx.SaveUser(ctx, located))

	h, err := rdb.HGetAll(ctx, userKey(5)).Result()
	require.NoError(t, err)
	assert.Equal(t, "1", h["lat"])
	assert.Equal(t, "2", h["lng"])
	members, err := rdb.ZCard(ctx, usersGeoKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), members)

	require.NoError(t, idx.PartialUpdateUser(ctx, domain.UserDocument{ObjectID: 5, Fullname: "Ana B", Localidad: "Belgrano"}))

	h, err = rdb.HGetAll(ctx, userKey(5)).Result()
	require.NoError(t, err)
	assert.NotContains(t, h, "lat")
	assert.NotContains(t, h, "lng")
	assert.Equal(t, "Ana B", h["fullname"])
	assert.Equal(t, "ana@example.com", h["email"], "partial update keeps fields it does not carry")

	members, err = rdb.ZCard(ctx, usersGeoKey).Result()
	require.NoError(t, err)
	assert.Zero(t, members)
}

func TestUserIndex_SaveReplacesDocument(t *testing.T) {
	_, rdb := newTestRedis(t)
	idx := NewUserIndex(rdb, logger.Discard())
	ctx := context.Background()

	require.NoError(t, idx.SaveUser(ctx, domain.UserDocument{ObjectID: 5, Fullname: "Ana", Email: "ana@example.com", Geoloc: &domain.GeoPoint{Lat: 1, Lng: 2}}))
	require.NoError(t, idx.SaveUser(ctx, domain.UserDocument{ObjectID: 5, Fullname: "Ana"}))

	h, err := rdb.HGetAll(ctx, userKey(5)).Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"objectID": "5", "fullname": "Ana", "localidad": ""}, h)

	members, err := rdb.ZCard(ctx, usersGeoKey).Result()
	require.NoError(t, err)
	assert.Zero(t, members)
}
