package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"quiz-exam-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// Machine-readable error reasons.
const (
	codeInvalidInput   = "invalid_input"
	codeNotFound       = "not_found"
	codeUnauthorized   = "unauthorized"
	codeConflict       = "conflict"
	codeNotImplemented = "not_implemented"
	codeInternal       = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// decodeJSON reads a bounded JSON body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps use-case errors onto status codes. Unclassified errors are logged
// and hidden behind a generic message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, domain.ErrCodingQuestionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrAttemptCompleted):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, codeNotImplemented, err.Error())
	default:
		h.log.WithError(err).
			WithField("request_id", middleware.GetReqID(r.Context())).
			WithField("path", r.URL.Path).
			Error("request failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
