package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-exam-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository. A single mutex
// serializes every Update, so concurrent submissions to one attempt cannot drop each other.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]domain.Attempt)}
}

func (s *AttemptStore) Create(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = cloneAttempt(attempt)
	return nil
}

func (s *AttemptStore) Get(_ context.Context, id string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[id]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return cloneAttempt(attempt), nil
}

func (s *AttemptStore) GetForUser(ctx context.Context, id, userID string) (domain.Attempt, error) {
	attempt, err := s.Get(ctx, id)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.UserID != userID {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptStore) ListByUser(_ context.Context, userID, status string) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Attempt, 0)
	for _, attempt := range s.attempts {
		if attempt.UserID != userID {
			continue
		}
		if status != "" && attempt.Status != status {
			continue
		}
		out = append(out, cloneAttempt(attempt))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *AttemptStore) Update(_ context.Context, id string, fn func(*domain.Attempt) error) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.attempts[id]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	working := cloneAttempt(stored)
	if err := fn(&working); err != nil {
		return domain.Attempt{}, err
	}
	s.attempts[id] = cloneAttempt(working)
	return working, nil
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	answers := make([]domain.Answer, len(a.Answers))
	for i, answer := range a.Answers {
		answer.SelectedAnswers = append([]string(nil), answer.SelectedAnswers...)
		answers[i] = answer
	}
	a.Answers = answers
	if a.CompletedAt != nil {
		completed := *a.CompletedAt
		a.CompletedAt = &completed
	}
	return a
}
