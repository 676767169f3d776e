package domain

import (
	"fmt"
	"math"
)

// earthRadiusMeters совпадает с радиусом, который использует Redis в GEO-командах.
const earthRadiusMeters = 6372797.560856

// MaxIndexedLat — предельная широта, которую принимает geohash в Redis (GEOADD, GEOSEARCH).
const MaxIndexedLat = 85.05112878

// GeoPoint — пара (широта, долгота).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate проверяет диапазоны координат. Широта ограничена MaxIndexedLat,
// иначе точку нельзя положить в гео-индекс.
func (g GeoPoint) Validate() error {
	if math.IsNaN(g.Lat) || g.Lat < -MaxIndexedLat || g.Lat > MaxIndexedLat {
		return &ValidationError{Field: "lat", Reason: fmt.Sprintf("latitude %v out of range", g.Lat)}
	}
	if math.IsNaN(g.Lng) || g.Lng < -180 || g.Lng > 180 {
		return &ValidationError{Field: "lng", Reason: fmt.Sprintf("longitude %v out of range", g.Lng)}
	}
	return nil
}

// DistanceMeters — расстояние по формуле гаверсинусов.
func (g GeoPoint) DistanceMeters(other GeoPoint) float64 {
	lat1 := g.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (other.Lng - g.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}
