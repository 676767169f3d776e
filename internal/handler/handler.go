package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/PetFinder/internal/domain"
)

const maxBodyBytes = 10 << 20

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// statusFor сопоставляет вид доменной ошибки с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondWithDomainError логирует ошибку use case и отвечает подходящим статусом.
// Детали внутренних ошибок клиенту не отдаются.
func respondWithDomainError(w http.ResponseWriter, err error, op string, logger *slog.Logger) {
	code := statusFor(err)
	msg := err.Error()

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		msg = verr.Error()
	case code == http.StatusInternalServerError:
		msg = "internal server error"
	case code == http.StatusBadGateway:
		msg = "upstream service unavailable"
	case code == http.StatusUnauthorized:
		msg = domain.ErrUnauthorized.Error()
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "op", op, "status", code, "error", err)
	} else {
		logger.Warn("request rejected", "op", op, "status", code, "error", err)
	}
	respondWithError(w, code, msg, logger)
}

// decodeJSON читает тело запроса в dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}
	return nil
}

// idParam читает положительный числовой параметр пути.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}

func indexWarning(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
