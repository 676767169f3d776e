package domain

import (
	"time"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;column:id"`
	Fullname  string    `json:"fullname" db:"fullname" gorm:"column:fullname"`
	Email     string    `json:"email" db:"email" gorm:"column:email;uniqueIndex"`
	Localidad string    `json:"localidad" db:"localidad" gorm:"column:localidad"`
	UserLat   *float64  `json:"userLat" db:"user_lat" gorm:"column:user_lat"`
	UserLong  *float64  `json:"userLong" db:"user_long" gorm:"column:user_long"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// GeoPoint возвращает координаты пользователя, если обе заданы.
func (u *User) GeoPoint() (GeoPoint, bool) {
	if u.UserLat == nil || u.UserLong == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *u.UserLat, Lng: *u.UserLong}, true
}

// Credential хранит данные для входа пользователя,
// соответствует таблице auths в бд (один к одному с users).
type Credential struct {
	UserID       int64     `db:"user_id" gorm:"primaryKey;column:user_id;autoIncrement:false"`
	Email        string    `db:"email" gorm:"column:email;uniqueIndex"`
	PasswordHash string    `db:"password" gorm:"column:password"`
	CreatedAt    time.Time `db:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `db:"updated_at" gorm:"column:updated_at"`
}

func (Credential) TableName() string {
	return "auths"
}

// UserUpdate — изменяемые личные данные пользователя.
type UserUpdate struct {
	UserID    int64
	Fullname  string
	Localidad string
	UserLat   *float64
	UserLong  *float64
}
