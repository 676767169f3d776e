package domain

import (
	"fmt"
	"strings"
	"time"
)

// PetState — статус объявления о питомце.
type PetState string

const (
	PetStateLost     PetState = "lost"
	PetStateFound    PetState = "found"
	PetStateReunited PetState = "reunited"
)

// ParsePetState приводит строку к PetState. Пустая строка означает lost.
func ParsePetState(s string) (PetState, error) {
	switch PetState(strings.ToLower(strings.TrimSpace(s))) {
	case "", PetStateLost:
		return PetStateLost, nil
	case PetStateFound:
		return PetStateFound, nil
	case PetStateReunited:
		return PetStateReunited, nil
	}
	return "", &ValidationError{Field: "petState", Reason: fmt.Sprintf("unknown state %q", s)}
}

// Pet представляет модель питомца в системе,
// соответствует таблице pets в бд
type Pet struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	PetName     string    `json:"petName" db:"pet_name"`
	PetImgURL   string    `json:"petImgURL" db:"pet_img_url"`
	PetState    PetState  `json:"petState" db:"pet_state"`
	PetLat      float64   `json:"petLat" db:"pet_lat"`
	PetLong     float64   `json:"petLong" db:"pet_long"`
	PetLocation string    `json:"petLocation" db:"pet_location"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (Pet) TableName() string {
	return "pets"
}

func (p *Pet) GeoPoint() GeoPoint {
	return GeoPoint{Lat: p.PetLat, Lng: p.PetLong}
}

// PetDocument — денормализованная копия питомца в поисковом индексе.
type PetDocument struct {
	ObjectID    int64    `json:"objectID"`
	PetName     string   `json:"petName"`
	PetImgURL   string   `json:"petImgURL"`
	PetState    PetState `json:"petState"`
	Geoloc      GeoPoint `json:"_geoloc"`
	UserID      int64    `json:"userId"`
	PetLocation string   `json:"petLocation"`
}

// NewPetDocument строит документ индекса из строки основного хранилища.
func NewPetDocument(p *Pet) PetDocument {
	return PetDocument{
		ObjectID:    p.ID,
		PetName:     p.PetName,
		PetImgURL:   p.PetImgURL,
		PetState:    p.PetState,
		Geoloc:      p.GeoPoint(),
		UserID:      p.UserID,
		PetLocation: p.PetLocation,
	}
}

// UserDocument — денормализованная копия пользователя в индексе.
// Geoloc может отсутствовать, пока пользователь не указал координаты.
type UserDocument struct {
	ObjectID  int64     `json:"objectID"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email,omitempty"`
	Localidad string    `json:"localidad"`
	Geoloc    *GeoPoint `json:"_geoloc,omitempty"`
}

func NewUserDocument(u *User) UserDocument {
	doc := UserDocument{
		ObjectID:  u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Localidad: u.Localidad,
	}
	if gp, ok := u.GeoPoint(); ok {
		doc.Geoloc = &gp
	}
	return doc
}

// NearbyPet — нормализованный результат поиска по радиусу.
type NearbyPet struct {
	ID          int64    `json:"id"`
	PetName     string   `json:"petName"`
	PetImgURL   string   `json:"petImgURL"`
	GeoPoint    GeoPoint `json:"geoPoint"`
	UserID      int64    `json:"userId"`
	PetLocation string   `json:"petLocation"`
}
