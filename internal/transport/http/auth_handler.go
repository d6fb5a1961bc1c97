package http

import (
	"net/http"

	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

type checkResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}
	user, token, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{Message: "Registration successful", User: user})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := h.sessionToken(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (h *Handler) checkAuth(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity.UserID == "" {
		writeJSON(w, http.StatusUnauthorized, checkResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Authenticated: true, User: &identity})
}
