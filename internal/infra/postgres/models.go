package postgres

import (
	"time"

	"github.com/uptrace/bun"
	"quiz-exam-service/internal/domain"
)

type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID         string    `bun:"id,pk"`
	Email      string    `bun:"email,notnull"`
	Name       string    `bun:"name,notnull"`
	Password   []byte    `bun:"password,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	LastActive time.Time `bun:"last_active,notnull"`
}

func newUserRow(u domain.User) *userRow {
	return &userRow{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Password:   u.PasswordHash,
		CreatedAt:  u.CreatedAt,
		LastActive: u.LastActive,
	}
}

func (r *userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.Password,
		CreatedAt:    r.CreatedAt,
		LastActive:   r.LastActive,
	}
}

// attemptRow stores answers as an embedded JSONB document, one row per attempt.
type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	ID                string          `bun:"id,pk"`
	UserID            string          `bun:"user_id,notnull"`
	UserName          string          `bun:"user_name,notnull"`
	QuestionSetNumber int             `bun:"question_set_number,notnull"`
	Status            string          `bun:"status,notnull"`
	Answers           []domain.Answer `bun:"answers,type:jsonb,notnull"`
	Score             int             `bun:"score,notnull"`
	TotalQuestions    int             `bun:"total_questions,notnull"`
	CreatedAt         time.Time       `bun:"created_at,notnull"`
	StartedAt         time.Time       `bun:"started_at,notnull"`
	CompletedAt       *time.Time      `bun:"completed_at"`
}

func newAttemptRow(a domain.Attempt) *attemptRow {
	answers := a.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	return &attemptRow{
		ID:                a.ID,
		UserID:            a.UserID,
		UserName:          a.UserName,
		QuestionSetNumber: a.QuestionSetNumber,
		Status:            a.Status,
		Answers:           answers,
		Score:             a.Score,
		TotalQuestions:    a.TotalQuestions,
		CreatedAt:         a.CreatedAt,
		StartedAt:         a.StartedAt,
		CompletedAt:       a.CompletedAt,
	}
}

func (r *attemptRow) toDomain() domain.Attempt {
	answers := r.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	return domain.Attempt{
		ID:                r.ID,
		UserID:            r.UserID,
		UserName:          r.UserName,
		QuestionSetNumber: r.QuestionSetNumber,
		Status:            r.Status,
		Answers:           answers,
		Score:             r.Score,
		TotalQuestions:    r.TotalQuestions,
		CreatedAt:         r.CreatedAt,
		StartedAt:         r.StartedAt,
		CompletedAt:       r.CompletedAt,
	}
}
