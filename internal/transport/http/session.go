package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"quiz-exam-service/internal/domain"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// identityFromContext returns the caller, or a zero Identity for anonymous requests.
func identityFromContext(ctx context.Context) domain.Identity {
	if v, ok := ctx.Value(ctxKeyIdentity).(domain.Identity); ok {
		return v
	}
	return domain.Identity{}
}

// sessionToken reads the session cookie, falling back to a bearer token.
func (h *Handler) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// resolveSession attaches the caller's identity when the request carries a live session.
// Invalid or expired tokens leave the request anonymous.
func (h *Handler) resolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		identity, err := h.auth.Authenticate(r.Context(), token)
		if errors.Is(err, domain.ErrUnauthenticated) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identityFromContext(r.Context()).UserID == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
