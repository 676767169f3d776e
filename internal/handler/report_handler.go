package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PetFinder/internal/usecase"
)

// ReportHandler — сообщения о найденных питомцах.
type ReportHandler struct {
	reports usecase.ReportUseCase
	logger  *slog.Logger
}

func NewReportHandler(reports usecase.ReportUseCase, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

type reportRequest struct {
	ReportName  string `json:"reportName"`
	ReportPhone string `json:"reportPhone"`
	ReportAbout string `json:"reportAbout"`
}

// ReportPet — POST /pets/{petID}/reports
func (h *ReportHandler) ReportPet(w http.ResponseWriter, r *http.Request) {
	petID, err := idParam(r, "petID")
	if err != nil {
		respondWithDomainError(w, err, "ReportPet", h.logger)
		return
	}
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, err, "ReportPet", h.logger)
		return
	}

	report, err := h.reports.ReportPet(r.Context(), petID, usecase.ReportInput{
		ReportName:  req.ReportName,
		ReportPhone: req.ReportPhone,
		ReportAbout: req.ReportAbout,
	})
	if err != nil {
		respondWithDomainError(w, err, "ReportPet", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, report, h.logger)
}

// NotifyOwner — POST /reports/{reportID}/notify
func (h *ReportHandler) NotifyOwner(w http.ResponseWriter, r *http.Request) {
	reportID, err := idParam(r, "reportID")
	if err != nil {
		respondWithDomainError(w, err, "NotifyOwner", h.logger)
		return
	}

	if err := h.reports.NotifyOwner(r.Context(), reportID); err != nil {
		respondWithDomainError(w, err, "NotifyOwner", h.logger)
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "notification queued"}, h.logger)
}
