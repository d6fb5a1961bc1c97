package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/domain"
)

type startAttemptRequest struct {
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	QuestionSetNumber *int   `json:"questionSetNumber"`
}

type startAttemptResponse struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	QuestionSetNumber int    `json:"questionSetNumber"`
}

type submitAnswerRequest struct {
	QuestionID      string   `json:"questionId"`
	SelectedAnswers []string `json:"selectedAnswers"`
}

type attemptsResponse struct {
	Attempts []domain.Attempt `json:"attempts"`
}

// startAttempt falls back to the session identity for a missing userId or userName.
func (h *Handler) startAttempt(w http.ResponseWriter, r *http.Request) {
	var req startAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := identityFromContext(r.Context())
	if req.UserID == "" {
		req.UserID = caller.UserID
	}
	if req.UserName == "" {
		req.UserName = caller.Name
	}

	attempt, err := h.attempts.StartAttempt(r.Context(), app.StartAttemptInput{
		UserID:            req.UserID,
		UserName:          req.UserName,
		QuestionSetNumber: req.QuestionSetNumber,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, startAttemptResponse{
		ID:                attempt.ID,
		UserID:            attempt.UserID,
		QuestionSetNumber: attempt.QuestionSetNumber,
	})
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.attempts.SubmitAnswer(r.Context(), chi.URLParam(r, "attemptID"), req.QuestionID, req.SelectedAnswers)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) completeAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.attempts.CompleteAttempt(r.Context(), chi.URLParam(r, "attemptID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *Handler) examHistory(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attempts.ListAttempts(r.Context(), identityFromContext(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attemptsResponse{Attempts: attempts})
}

func (h *Handler) examDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.attempts.AttemptDetail(r.Context(), identityFromContext(r.Context()), chi.URLParam(r, "attemptID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
