package redisgeo

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/GoArmGo/PetFinder/internal/adapter/breaker"
	"github.com/GoArmGo/PetFinder/internal/domain"
)

// searchSlackMeters расширяет радиус запроса к Redis, чтобы точки ровно на границе
// не терялись из-за квантования geohash; окончательный отбор идёт по точным координатам.
const searchSlackMeters = 1.0

// PetIndex реализует ports.PetIndex поверх Redis GEO и хэшей.
// Чтение и запись идут через разные предохранители: отказы записи не закрывают поиск.
type PetIndex struct {
	rdb     redis.Cmdable
	readCB  *gobreaker.CircuitBreaker
	writeCB *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewPetIndex(rdb redis.Cmdable, logger *slog.Logger) *PetIndex {
	return &PetIndex{
		rdb:     rdb,
		readCB:  breaker.New("pet-index-read", logger, redisAvailable),
		writeCB: breaker.New("pet-index-write", logger, redisAvailable),
		logger:  logger,
	}
}

// redisAvailable: ответ сервера с ошибкой (ERR ..., redis.Nil) означает, что Redis доступен.
func redisAvailable(err error) bool {
	var replyErr redis.Error
	return err == nil || errors.As(err, &replyErr)
}

func run(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		return domain.Upstream("search index", err)
	}
	return nil
}

func (i *PetIndex) read(fn func() error) error  { return run(i.readCB, fn) }
func (i *PetIndex) write(fn func() error) error { return run(i.writeCB, fn) }

// SavePet заменяет документ целиком.
func (i *PetIndex) SavePet(ctx context.Context, doc domain.PetDocument) error {
	start := time.Now()
	err := i.write(func() error {
		_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, petKey(doc.ObjectID))
			pipe.HSet(ctx, petKey(doc.ObjectID), petToHash(doc))
			pipe.GeoAdd(ctx, petsGeoKey, &redis.GeoLocation{
				Name:      strconv.FormatInt(doc.ObjectID, 10),
				Longitude: doc.Geoloc.Lng,
				Latitude:  doc.Geoloc.Lat,
			})
			return nil
		})
		return err
	})
	if err != nil {
		i.logger.Warn("failed to save pet document", "pet_id", doc.ObjectID, "error", err)
		return err
	}
	i.logger.Debug("pet document saved", "pet_id", doc.ObjectID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// PartialUpdatePet сливает поля документа с уже сохранёнными.
func (i *PetIndex) PartialUpdatePet(ctx context.Context, doc domain.PetDocument) error {
	err := i.write(func() error {
		_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, petKey(doc.ObjectID), petToHash(doc))
			pipe.GeoAdd(ctx, petsGeoKey, &redis.GeoLocation{
				Name:      strconv.FormatInt(doc.ObjectID, 10),
				Longitude: doc.Geoloc.Lng,
				Latitude:  doc.Geoloc.Lat,
			})
			return nil
		})
		return err
	})
	if err != nil {
		i.logger.Warn("failed to update pet document", "pet_id", doc.ObjectID, "error", err)
	}
	return err
}

// DeletePet удаляет документ; отсутствие документа ошибкой не считается.
func (i *PetIndex) DeletePet(ctx context.Context, id int64) error {
	err := i.write(func() error {
		_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZRem(ctx, petsGeoKey, strconv.FormatInt(id, 10))
			pipe.Del(ctx, petKey(id))
			return nil
		})
		return err
	})
	if err != nil {
		i.logger.Warn("failed to delete pet document", "pet_id", id, "error", err)
	}
	return err
}

// SearchNearby возвращает документы в пределах radiusMeters (граница включительно), ближайшие первыми.
func (i *PetIndex) SearchNearby(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]domain.PetDocument, error) {
	start := time.Now()
	var docs []domain.PetDocument

	err := i.read(func() error {
		locs, err := i.rdb.GeoSearchLocation(ctx, petsGeoKey, &redis.GeoSearchLocationQuery{
			GeoSearchQuery: redis.GeoSearchQuery{
				Longitude:  center.Lng,
				Latitude:   center.Lat,
				Radius:     radiusMeters + searchSlackMeters,
				RadiusUnit: "m",
				Sort:       "ASC",
			},
			WithDist: true,
		}).Result()
		if err != nil {
			return err
		}
		if len(locs) == 0 {
			return nil
		}

		pipe := i.rdb.Pipeline()
		cmds := make([]*redis.MapStringStringCmd, 0, len(locs))
		for _, loc := range locs {
			id, err := strconv.ParseInt(loc.Name, 10, 64)
			if err != nil {
				continue
			}
			cmds = append(cmds, pipe.HGetAll(ctx, petKey(id)))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}

		docs = make([]domain.PetDocument, 0, len(cmds))
		for _, cmd := range cmds {
			doc, ok := petFromHash(cmd.Val())
			if !ok {
				continue
			}
			if center.DistanceMeters(doc.Geoloc) <= radiusMeters {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		i.logger.Warn("nearby search failed", "lat", center.Lat, "lng", center.Lng, "error", err)
		return nil, err
	}

	sortByDistance(center, docs)
	i.logger.Debug("nearby search done",
		"results", len(docs),
		"radius_m", radiusMeters,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return docs, nil
}

// PetDocuments читает документы из хэшей; пустые и повреждённые пропускаются.
func (i *PetIndex) PetDocuments(ctx context.Context, ids []int64) (map[int64]domain.PetDocument, error) {
	out := make(map[int64]domain.PetDocument, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	err := i.read(func() error {
		pipe := i.rdb.Pipeline()
		cmds := make(map[int64]*redis.MapStringStringCmd, len(ids))
		for _, id := range ids {
			cmds[id] = pipe.HGetAll(ctx, petKey(id))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		for id, cmd := range cmds {
			if doc, ok := petFromHash(cmd.Val()); ok {
				out[id] = doc
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IndexedPetIDs перечисляет все id из geo-множества питомцев.
func (i *PetIndex) IndexedPetIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := i.read(func() error {
		members, err := i.rdb.ZRange(ctx, petsGeoKey, 0, -1).Result()
		if err != nil {
			return err
		}
		ids = make([]int64, 0, len(members))
		for _, m := range members {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
