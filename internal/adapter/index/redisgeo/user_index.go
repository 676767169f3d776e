package redisgeo

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/GoArmGo/PetFinder/internal/adapter/breaker"
	"github.com/GoArmGo/PetFinder/internal/domain"
)

// UserIndex реализует ports.UserIndex.
type UserIndex struct {
	rdb    redis.Cmdable
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

func NewUserIndex(rdb redis.Cmdable, logger *slog.Logger) *UserIndex {
	return &UserIndex{rdb: rdb, cb: breaker.New("user-index", logger, redisAvailable), logger: logger}
}

func (i *UserIndex) SaveUser(ctx context.Context, doc domain.UserDocument) error {
	return i.write(ctx, doc, true)
}

func (i *UserIndex) PartialUpdateUser(ctx context.Context, doc domain.UserDocument) error {
	return i.write(ctx, doc, false)
}

// write сохраняет документ. Документ без координат снимает прежнюю точку
// и в полной, и в частичной записи: в хранилище координаты тоже обнулены.
func (i *UserIndex) write(ctx context.Context, doc domain.UserDocument, replace bool) error {
	member := strconv.FormatInt(doc.ObjectID, 10)
	err := run(i.cb, func() error {
		_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if replace {
				pipe.Del(ctx, userKey(doc.ObjectID))
			}
			pipe.HSet(ctx, userKey(doc.ObjectID), userToHash(doc))
			if doc.Geoloc != nil {
				pipe.GeoAdd(ctx, usersGeoKey, &redis.GeoLocation{
					Name:      member,
					Longitude: doc.Geoloc.Lng,
					Latitude:  doc.Geoloc.Lat,
				})
				return nil
			}
			if !replace {
				pipe.HDel(ctx, userKey(doc.ObjectID), "lat", "lng")
			}
			pipe.ZRem(ctx, usersGeoKey, member)
			return nil
		})
		return err
	})
	if err != nil {
		i.logger.Warn("failed to write user document", "user_id", doc.ObjectID, "error", err)
		return err
	}
	return nil
}
