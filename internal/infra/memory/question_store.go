package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-exam-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	s := &QuestionStore{questions: make(map[string]domain.Question, len(seed))}
	for _, q := range seed {
		s.questions[q.ID] = cloneQuestion(q)
	}
	return s
}

func (s *QuestionStore) ListSets(_ context.Context) ([]domain.QuestionSetSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, q := range s.questions {
		counts[q.QuestionSet]++
	}
	sets := make([]domain.QuestionSetSummary, 0, len(counts))
	for set, n := range counts {
		sets = append(sets, domain.QuestionSetSummary{SetNumber: set, QuestionCount: n})
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].SetNumber < sets[j].SetNumber })
	return sets, nil
}

func (s *QuestionStore) ListBySet(_ context.Context, setNumber int) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.QuestionSet == setNumber {
			out = append(out, cloneQuestion(q))
		}
	}
	sortQuestions(out)
	return out, nil
}

func (s *QuestionStore) List(_ context.Context, offset, limit int) ([]domain.Question, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		all = append(all, cloneQuestion(q))
	}
	sortQuestions(all)

	total := len(all)
	if offset >= total {
		return []domain.Question{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *QuestionStore) Get(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s *QuestionStore) Create(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *QuestionStore) Update(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *QuestionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *QuestionStore) ReplaceAll(_ context.Context, questions []domain.Question) error {
	fresh := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		fresh[q.ID] = cloneQuestion(q)
	}
	s.mu.Lock()
	s.questions = fresh
	s.mu.Unlock()
	return nil
}

// sortQuestions orders by set, then creation time, then id for a stable listing.
func sortQuestions(qs []domain.Question) {
	sort.Slice(qs, func(i, j int) bool {
		if qs[i].QuestionSet != qs[j].QuestionSet {
			return qs[i].QuestionSet < qs[j].QuestionSet
		}
		if !qs[i].CreatedAt.Equal(qs[j].CreatedAt) {
			return qs[i].CreatedAt.Before(qs[j].CreatedAt)
		}
		return qs[i].ID < qs[j].ID
	})
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]domain.Option(nil), q.Options...)
	q.CorrectAnswers = append([]string(nil), q.CorrectAnswers...)
	if q.UpdatedAt != nil {
		updated := *q.UpdatedAt
		q.UpdatedAt = &updated
	}
	return q
}
