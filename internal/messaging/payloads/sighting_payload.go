package payloads

// SightingNotification — письмо владельцу о том, что его питомца видели.
type SightingNotification struct {
	ReportID int64  `json:"report_id"`
	PetID    int64  `json:"pet_id"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}
