package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"quiz-exam-service/internal/app"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Attempts *app.AttemptService
	Catalog  *app.CatalogService
	Auth     *app.AuthService
	Coding   *app.CodingService
}

// Options tunes transport concerns that are not part of the use cases.
type Options struct {
	CookieName   string
	SecureCookie bool
	CORSOrigins  []string
	Logger       logrus.FieldLogger
}

// Handler serves the JSON API.
type Handler struct {
	attempts *app.AttemptService
	catalog  *app.CatalogService
	auth     *app.AuthService
	coding   *app.CodingService

	cookieName   string
	secureCookie bool
	corsOrigins  []string
	log          logrus.FieldLogger
}

func NewHandler(services Services, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "quiz_session"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Handler{
		attempts:     services.Attempts,
		catalog:      services.Catalog,
		auth:         services.Auth,
		coding:       services.Coding,
		cookieName:   opts.CookieName,
		secureCookie: opts.SecureCookie,
		corsOrigins:  opts.CORSOrigins,
		log:          opts.Logger,
	}
}

// Routes builds the router with all middleware attached.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	if len(h.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(h.resolveSession)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/check", h.checkAuth)
		})

		r.Post("/attempts/start", h.startAttempt)
		r.Post("/attempts/{attemptID}/answer", h.submitAnswer)
		r.Post("/attempts/{attemptID}/complete", h.completeAttempt)

		r.Get("/questions/sets", h.listSets)
		r.Get("/questions/set/{setNumber}", h.questionsInSet)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/exam-history", h.examHistory)
			r.Get("/exam-history/{attemptID}", h.examDetail)
			r.Get("/users/progress", h.examHistory)

			r.Get("/questions", h.listQuestions)
			r.Post("/questions", h.createQuestion)
			r.Get("/questions/{questionID}", h.getQuestion)
			r.Put("/questions/{questionID}", h.updateQuestion)
			r.Delete("/questions/{questionID}", h.deleteQuestion)
		})

		r.Route("/coding", func(r chi.Router) {
			r.Get("/questions", h.listCodingQuestions)
			r.Get("/questions/{questionID}", h.getCodingQuestion)
			r.Post("/run", h.runCode)
			r.Post("/submit", h.submitCode)
		})
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}
