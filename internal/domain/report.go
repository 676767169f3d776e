package domain

import "time"

// Report — сообщение о том, что питомца видели.
// Соответствует таблице reports, после создания не меняется.
type Report struct {
	ID          int64     `json:"id" db:"id"`
	PetID       int64     `json:"petId" db:"pet_id"`
	ReportName  string    `json:"reportName" db:"report_name"`
	ReportPhone string    `json:"reportPhone" db:"report_phone"`
	ReportAbout string    `json:"reportAbout" db:"report_about"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

// SightingEmail — письмо владельцу питомца.
type SightingEmail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
