package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"quiz-exam-service/internal/domain"
)

// SubmitCodeInput is a code submission for one practice problem.
type SubmitCodeInput struct {
	QuestionID string `json:"questionId"`
	Language   string `json:"language"`
	Code       string `json:"code"`
}

// CodingService lists practice problems and records submissions. It never executes code.
type CodingService struct {
	coding CodingRepository
	now    func() time.Time
	newID  func() string
}

func NewCodingService(coding CodingRepository) *CodingService {
	return &CodingService{coding: coding, now: time.Now, newID: uuid.NewString}
}

// ListQuestions returns problems for language, or all problems when language is empty.
func (s *CodingService) ListQuestions(ctx context.Context, language string) ([]domain.CodingQuestion, error) {
	return s.coding.ListQuestions(ctx, strings.ToLower(strings.TrimSpace(language)))
}

func (s *CodingService) GetQuestion(ctx context.Context, id string) (domain.CodingQuestion, error) {
	return s.coding.GetQuestion(ctx, id)
}

// Run always fails with ErrNotImplemented once the input is valid.
func (s *CodingService) Run(_ context.Context, in SubmitCodeInput) error {
	if err := validateCode(in); err != nil {
		return err
	}
	return domain.ErrNotImplemented
}

// Submit stores the submission when the caller is authenticated. Grading is not
// implemented, so the returned submission carries no verdict; persisted reports whether it
// was stored.
func (s *CodingService) Submit(ctx context.Context, caller domain.Identity, in SubmitCodeInput) (domain.CodingSubmission, bool, error) {
	if err := validateCode(in); err != nil {
		return domain.CodingSubmission{}, false, err
	}
	if strings.TrimSpace(in.QuestionID) == "" {
		return domain.CodingSubmission{}, false, fmt.Errorf("%w: questionId is required", domain.ErrInvalidInput)
	}
	if _, err := s.coding.GetQuestion(ctx, in.QuestionID); err != nil {
		return domain.CodingSubmission{}, false, err
	}

	submission := domain.CodingSubmission{
		UserID:      caller.UserID,
		QuestionID:  in.QuestionID,
		Language:    strings.ToLower(strings.TrimSpace(in.Language)),
		Code:        in.Code,
		SubmittedAt: s.now().UTC(),
	}
	if caller.UserID == "" {
		return submission, false, nil
	}

	submission.ID = s.newID()
	if err := s.coding.CreateSubmission(ctx, submission); err != nil {
		return domain.CodingSubmission{}, false, fmt.Errorf("save submission: %w", err)
	}
	return submission, true, nil
}

// SeedQuestions inserts practice problems, filling ids, timestamps, and normalized languages.
func (s *CodingService) SeedQuestions(ctx context.Context, questions []domain.CodingQuestion) (int, error) {
	now := s.now().UTC()
	for i, q := range questions {
		if strings.TrimSpace(q.Title) == "" || strings.TrimSpace(q.Language) == "" {
			return i, fmt.Errorf("%w: coding question %d needs a title and language", domain.ErrInvalidInput, i+1)
		}
		q.ID = s.newID()
		q.Language = strings.ToLower(strings.TrimSpace(q.Language))
		q.CreatedAt = now
		if err := s.coding.CreateQuestion(ctx, q); err != nil {
			return i, fmt.Errorf("seed %q: %w", q.Title, err)
		}
	}
	return len(questions), nil
}

func validateCode(in SubmitCodeInput) error {
	if strings.TrimSpace(in.Language) == "" {
		return fmt.Errorf("%w: language is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Code) == "" {
		return fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	return nil
}
