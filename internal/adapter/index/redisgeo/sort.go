package redisgeo

import (
	"sort"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

// sortByDistance упорядочивает по точному расстоянию, при равенстве по id.
func sortByDistance(center domain.GeoPoint, docs []domain.PetDocument) {
	sort.SliceStable(docs, func(a, b int) bool {
		da := center.DistanceMeters(docs[a].Geoloc)
		db := center.DistanceMeters(docs[b].Geoloc)
		if da != db {
			return da < db
		}
		return docs[a].ObjectID < docs[b].ObjectID
	})
}
