package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/domain"
)

type codingQuestionsResponse struct {
	Questions []domain.CodingQuestion `json:"questions"`
}

type submitCodeResponse struct {
	SubmissionID string `json:"submissionId"`
	Persisted    bool   `json:"persisted"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

func (h *Handler) listCodingQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.coding.ListQuestions(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if questions == nil {
		questions = []domain.CodingQuestion{}
	}
	writeJSON(w, http.StatusOK, codingQuestionsResponse{Questions: questions})
}

func (h *Handler) getCodingQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.coding.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) runCode(w http.ResponseWriter, r *http.Request) {
	var req app.SubmitCodeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	h.writeServiceError(w, r, h.coding.Run(r.Context(), req))
}

// submitCode answers 202: the submission is accepted (and stored for signed-in callers)
// but never graded.
func (h *Handler) submitCode(w http.ResponseWriter, r *http.Request) {
	var req app.SubmitCodeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	submission, persisted, err := h.coding.Submit(r.Context(), identityFromContext(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submitCodeResponse{
		SubmissionID: submission.ID,
		Persisted:    persisted,
		Status:       codeNotImplemented,
		Message:      "grading is not implemented",
	})
}
