package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/domain"
)

type createdResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (h *Handler) listSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.catalog.ListSets(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if sets == nil {
		sets = []domain.QuestionSetSummary{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (h *Handler) questionsInSet(w http.ResponseWriter, r *http.Request) {
	setNumber, err := strconv.Atoi(chi.URLParam(r, "setNumber"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "set number must be an integer")
		return
	}
	questions, err := h.catalog.QuestionsInSet(r.Context(), setNumber)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", app.DefaultPageSize)
	if !ok {
		return
	}
	result, err := h.catalog.ListQuestions(r.Context(), page, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.catalog.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req app.QuestionInput
	if !decodeJSON(w, r, &req) {
		return
	}
	question, err := h.catalog.CreateQuestion(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: question.ID, Message: "Question created"})
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var req app.QuestionInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := h.catalog.UpdateQuestion(r.Context(), chi.URLParam(r, "questionID"), req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Question updated"})
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Question deleted"})
}

// queryInt parses an optional integer query parameter, answering 400 itself on failure.
func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, name+" must be an integer")
		return 0, false
	}
	return v, true
}
