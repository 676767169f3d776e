package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/GoArmGo/PetFinder/internal/core/ports"
	"github.com/GoArmGo/PetFinder/internal/domain"
)

// DefaultNearbyRadiusMeters — радиус поиска, если он не задан.
const DefaultNearbyRadiusMeters = 20000

type nearbyUseCase struct {
	index         ports.PetIndex
	defaultRadius float64
	timeout       time.Duration
	logger        *slog.Logger
}

// NewNearbyUseCase создает поиск по радиусу поверх индекса.
func NewNearbyUseCase(index ports.PetIndex, defaultRadius float64, timeouts Timeouts, logger *slog.Logger) NearbyUseCase {
	if defaultRadius <= 0 {
		defaultRadius = DefaultNearbyRadiusMeters
	}
	return &nearbyUseCase{index: index, defaultRadius: defaultRadius, timeout: timeouts.Index, logger: logger}
}

// NearbyPets возвращает питомцев не дальше radiusMeters от точки (граница включительно), ближайшие первыми.
// Пустой результат не является ошибкой.
func (uc *nearbyUseCase) NearbyPets(ctx context.Context, lat, lng, radiusMeters float64) ([]domain.NearbyPet, error) {
	center := domain.GeoPoint{Lat: lat, Lng: lng}
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) {
		return nil, &domain.ValidationError{Field: "radius", Reason: "must be a finite number of meters"}
	}
	if radiusMeters <= 0 {
		radiusMeters = uc.defaultRadius
	}

	searchCtx, cancel := withTimeout(ctx, uc.timeout)
	defer cancel()

	docs, err := uc.index.SearchNearby(searchCtx, center, radiusMeters)
	if err != nil {
		uc.logger.Error("nearby search failed", "lat", lat, "lng", lng, "error", err)
		return nil, fmt.Errorf("usecase: nearby pets: %w", asUpstream("search index", err))
	}

	out := make([]domain.NearbyPet, 0, len(docs))
	for _, d := range docs {
		if center.DistanceMeters(d.Geoloc) > radiusMeters {
			continue
		}
		out = append(out, domain.NearbyPet{
			ID:          d.ObjectID,
			PetName:     d.PetName,
			PetImgURL:   d.PetImgURL,
			GeoPoint:    d.Geoloc,
			UserID:      d.UserID,
			PetLocation: d.PetLocation,
		})
	}
	return out, nil
}
