package app

import (
	"context"
	"time"

	"quiz-exam-service/internal/domain"
)

// QuestionRepository abstracts where the question catalog lives (in-memory, Postgres).
type QuestionRepository interface {
	ListSets(ctx context.Context) ([]domain.QuestionSetSummary, error)
	ListBySet(ctx context.Context, setNumber int) ([]domain.Question, error)
	// List returns one page ordered by question set, plus the total question count.
	List(ctx context.Context, offset, limit int) ([]domain.Question, int, error)
	Get(ctx context.Context, id string) (domain.Question, error)
	Create(ctx context.Context, q domain.Question) error
	Update(ctx context.Context, q domain.Question) error
	Delete(ctx context.Context, id string) error
	// ReplaceAll drops the catalog and inserts questions in one step.
	ReplaceAll(ctx context.Context, questions []domain.Question) error
}

// AttemptRepository persists attempts.
type AttemptRepository interface {
	Create(ctx context.Context, attempt domain.Attempt) error
	Get(ctx context.Context, id string) (domain.Attempt, error)
	// GetForUser behaves like Get but reports ErrAttemptNotFound for attempts owned by others.
	GetForUser(ctx context.Context, id, userID string) (domain.Attempt, error)
	// ListByUser returns the user's attempts newest first; an empty status matches all.
	ListByUser(ctx context.Context, userID, status string) ([]domain.Attempt, error)
	// Update runs fn against the stored attempt while no other Update for the same id can
	// interleave, and persists the result only when fn returns nil.
	Update(ctx context.Context, id string, fn func(*domain.Attempt) error) (domain.Attempt, error)
}

// UserRepository stores accounts keyed by normalized email.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	TouchLastActive(ctx context.Context, id string, at time.Time) error
}

// SessionRepository holds server-side sessions (in-memory, Redis).
type SessionRepository interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// CodingRepository stores practice problems and submissions.
type CodingRepository interface {
	ListQuestions(ctx context.Context, language string) ([]domain.CodingQuestion, error)
	GetQuestion(ctx context.Context, id string) (domain.CodingQuestion, error)
	CreateQuestion(ctx context.Context, q domain.CodingQuestion) error
	CreateSubmission(ctx context.Context, s domain.CodingSubmission) error
}
