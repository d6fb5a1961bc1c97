package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"quiz-exam-service/internal/domain"
)

// StartAttemptInput carries the fields needed to open an attempt. QuestionSetNumber is a
// pointer so an absent value can be told apart from zero.
type StartAttemptInput struct {
	UserID            string
	UserName          string
	QuestionSetNumber *int
}

// AttemptService contains the attempt and scoring use cases.
type AttemptService struct {
	attempts  AttemptRepository
	questions QuestionRepository
	now       func() time.Time
	newID     func() string
}

func NewAttemptService(attempts AttemptRepository, questions QuestionRepository) *AttemptService {
	return NewAttemptServiceWithClock(attempts, questions, time.Now)
}

// NewAttemptServiceWithClock is used by tests for deterministic timestamps.
func NewAttemptServiceWithClock(attempts AttemptRepository, questions QuestionRepository, now func() time.Time) *AttemptService {
	return &AttemptService{
		attempts:  attempts,
		questions: questions,
		now:       now,
		newID:     uuid.NewString,
	}
}

// StartAttempt opens an empty in-progress attempt. The question set is not checked against
// the catalog; an attempt may target a set with no questions.
func (s *AttemptService) StartAttempt(ctx context.Context, in StartAttemptInput) (domain.Attempt, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return domain.Attempt{}, fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	}
	if in.QuestionSetNumber == nil {
		return domain.Attempt{}, fmt.Errorf("%w: questionSetNumber is required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	attempt := domain.Attempt{
		ID:                s.newID(),
		UserID:            userID,
		UserName:          strings.TrimSpace(in.UserName),
		QuestionSetNumber: *in.QuestionSetNumber,
		Status:            domain.StatusInProgress,
		Answers:           []domain.Answer{},
		CreatedAt:         now,
		StartedAt:         now,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("create attempt: %w", err)
	}
	return attempt, nil
}

// SubmitAnswer scores one selection and stores it on the attempt, replacing any earlier
// answer for the same question.
func (s *AttemptService) SubmitAnswer(ctx context.Context, attemptID, questionID string, selected []string) (domain.AnswerResult, error) {
	if strings.TrimSpace(questionID) == "" {
		return domain.AnswerResult{}, fmt.Errorf("%w: questionId is required", domain.ErrInvalidInput)
	}
	if selected == nil {
		selected = []string{}
	}

	question, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	correct := domain.SameAnswers(selected, question.CorrectAnswers)
	answer := domain.Answer{
		QuestionID:      question.ID,
		SelectedAnswers: selected,
		IsCorrect:       correct,
		AnsweredAt:      s.now().UTC(),
	}

	updated, err := s.attempts.Update(ctx, attemptID, func(a *domain.Attempt) error {
		if a.Status == domain.StatusCompleted {
			return domain.ErrAttemptCompleted
		}
		a.RecordAnswer(answer)
		return nil
	})
	if err != nil {
		return domain.AnswerResult{}, err
	}

	return domain.AnswerResult{
		IsCorrect:      correct,
		CorrectAnswers: question.CorrectAnswers,
		CurrentScore:   updated.Score,
		TotalAnswered:  updated.TotalQuestions,
	}, nil
}

// CompleteAttempt marks the attempt completed. Repeated calls refresh the completion time.
func (s *AttemptService) CompleteAttempt(ctx context.Context, attemptID string) (domain.Attempt, error) {
	now := s.now().UTC()
	return s.attempts.Update(ctx, attemptID, func(a *domain.Attempt) error {
		a.Complete(now)
		return nil
	})
}

// AttemptDetail rebuilds the review of one of the caller's attempts. Answers whose question
// has since left the catalog are skipped.
func (s *AttemptService) AttemptDetail(ctx context.Context, caller domain.Identity, attemptID string) (domain.AttemptDetail, error) {
	if caller.UserID == "" {
		return domain.AttemptDetail{}, domain.ErrUnauthenticated
	}

	attempt, err := s.attempts.GetForUser(ctx, attemptID, caller.UserID)
	if err != nil {
		return domain.AttemptDetail{}, err
	}

	questions, err := s.questions.ListBySet(ctx, attempt.QuestionSetNumber)
	if err != nil {
		return domain.AttemptDetail{}, fmt.Errorf("load question set %d: %w", attempt.QuestionSetNumber, err)
	}
	lookup := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		lookup[q.ID] = q
	}

	detailed := make([]domain.DetailedAnswer, 0, len(attempt.Answers))
	for _, answer := range attempt.Answers {
		q, ok := lookup[answer.QuestionID]
		if !ok {
			continue
		}
		detailed = append(detailed, domain.DetailedAnswer{
			QuestionID:      answer.QuestionID,
			QuestionText:    q.Text,
			Options:         q.Options,
			SelectedAnswers: answer.SelectedAnswers,
			CorrectAnswers:  q.CorrectAnswers,
			IsCorrect:       answer.IsCorrect,
			AnsweredAt:      answer.AnsweredAt,
		})
	}

	return domain.AttemptDetail{Attempt: attempt, DetailedAnswers: detailed}, nil
}

// ListAttempts returns the caller's attempts, newest first.
func (s *AttemptService) ListAttempts(ctx context.Context, caller domain.Identity, status string) ([]domain.Attempt, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	switch status {
	case "", domain.StatusInProgress, domain.StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	attempts, err := s.attempts.ListByUser(ctx, caller.UserID, status)
	if err != nil {
		return nil, err
	}
	for i := range attempts {
		if attempts[i].Answers == nil {
			attempts[i].Answers = []domain.Answer{}
		}
	}
	return attempts, nil
}
