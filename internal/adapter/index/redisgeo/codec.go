package redisgeo

import (
	"strconv"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

const (
	petsGeoKey  = "pets:geo"
	usersGeoKey = "users:geo"
)

func petKey(id int64) string  { return "pet:" + strconv.FormatInt(id, 10) }
func userKey(id int64) string { return "user:" + strconv.FormatInt(id, 10) }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Хэш хранит точные координаты: позиция в geo-множестве квантуется geohash'ем.
func petToHash(doc domain.PetDocument) map[string]interface{} {
	return map[string]interface{}{
		"objectID":    doc.ObjectID,
		"petName":     doc.PetName,
		"petImgURL":   doc.PetImgURL,
		"petState":    string(doc.PetState),
		"lat":         formatFloat(doc.Geoloc.Lat),
		"lng":         formatFloat(doc.Geoloc.Lng),
		"userId":      doc.UserID,
		"petLocation": doc.PetLocation,
	}
}

// petFromHash собирает документ; ok == false для пустого или повреждённого хэша.
func petFromHash(h map[string]string) (domain.PetDocument, bool) {
	if len(h) == 0 {
		return domain.PetDocument{}, false
	}
	id, err := strconv.ParseInt(h["objectID"], 10, 64)
	if err != nil {
		return domain.PetDocument{}, false
	}
	gp, ok := parseGeo(h["lat"], h["lng"])
	if !ok {
		return domain.PetDocument{}, false
	}
	userID, _ := strconv.ParseInt(h["userId"], 10, 64)

	return domain.PetDocument{
		ObjectID:    id,
		PetName:     h["petName"],
		PetImgURL:   h["petImgURL"],
		PetState:    domain.PetState(h["petState"]),
		Geoloc:      gp,
		UserID:      userID,
		PetLocation: h["petLocation"],
	}, true
}

func userToHash(doc domain.UserDocument) map[string]interface{} {
	h := map[string]interface{}{
		"objectID":  doc.ObjectID,
		"fullname":  doc.Fullname,
		"localidad": doc.Localidad,
	}
	if doc.Email != "" {
		h["email"] = doc.Email
	}
	if doc.Geoloc != nil {
		h["lat"] = formatFloat(doc.Geoloc.Lat)
		h["lng"] = formatFloat(doc.Geoloc.Lng)
	}
	return h
}

func parseGeo(lat, lng string) (domain.GeoPoint, bool) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: la, Lng: lo}, true
}
