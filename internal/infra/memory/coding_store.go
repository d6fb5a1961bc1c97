package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-exam-service/internal/domain"
)

// CodingStore is an in-memory implementation of app.CodingRepository.
type CodingStore struct {
	mu          sync.RWMutex
	questions   map[string]domain.CodingQuestion
	submissions []domain.CodingSubmission
}

func NewCodingStore(seed ...domain.CodingQuestion) *CodingStore {
	s := &CodingStore{questions: make(map[string]domain.CodingQuestion, len(seed))}
	for _, q := range seed {
		s.questions[q.ID] = q
	}
	return s
}

func (s *CodingStore) ListQuestions(_ context.Context, language string) ([]domain.CodingQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CodingQuestion, 0)
	for _, q := range s.questions {
		if language == "" || q.Language == language {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *CodingStore) GetQuestion(_ context.Context, id string) (domain.CodingQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.CodingQuestion{}, domain.ErrCodingQuestionNotFound
	}
	return q, nil
}

func (s *CodingStore) CreateQuestion(_ context.Context, q domain.CodingQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *CodingStore) CreateSubmission(_ context.Context, sub domain.CodingSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	return nil
}

// Submissions returns a copy of everything recorded so far.
func (s *CodingStore) Submissions() []domain.CodingSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CodingSubmission(nil), s.submissions...)
}
