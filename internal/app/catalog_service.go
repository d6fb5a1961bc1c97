package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"quiz-exam-service/internal/domain"
)

const (
	DefaultCategory   = "AWS Data Engineering"
	DefaultDifficulty = "Medium"
	DefaultPageSize   = 50
	MaxPageSize       = 500
	DefaultSetSize    = 50

	setLoadTimeout = 10 * time.Second
)

// QuestionInput is the writable part of a question. QuestionSet is a pointer so a missing
// set number is rejected instead of stored as zero.
type QuestionInput struct {
	Text           string          `json:"question_text"`
	Options        []domain.Option `json:"options"`
	CorrectAnswers []string        `json:"correct_answers"`
	Category       string          `json:"category"`
	Difficulty     string          `json:"difficulty"`
	QuestionSet    *int            `json:"question_set"`
}

// QuestionPage is one page of the admin listing.
type QuestionPage struct {
	Questions      []domain.Question `json:"questions"`
	CurrentPage    int               `json:"currentPage"`
	TotalPages     int               `json:"totalPages"`
	TotalQuestions int               `json:"totalQuestions"`
}

// CatalogService serves and manages question content.
type CatalogService struct {
	questions QuestionRepository
	now       func() time.Time
	newID     func() string
	// sets coalesces concurrent loads of the same question set; nothing is retained.
	sets singleflight.Group
}

func NewCatalogService(questions QuestionRepository) *CatalogService {
	return &CatalogService{
		questions: questions,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ListSets returns each set number with its question count, ascending.
func (s *CatalogService) ListSets(ctx context.Context) ([]domain.QuestionSetSummary, error) {
	return s.questions.ListSets(ctx)
}

// QuestionsInSet returns the questions of one set without their answer keys.
// Concurrent callers for the same set share one load. The load runs detached from any
// single caller, so one canceled request does not fail the others waiting on it.
func (s *CatalogService) QuestionsInSet(ctx context.Context, setNumber int) ([]domain.Question, error) {
	ch := s.sets.DoChan(strconv.Itoa(setNumber), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), setLoadTimeout)
		defer cancel()
		return s.questions.ListBySet(loadCtx, setNumber)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	shared := res.Val.([]domain.Question)
	out := make([]domain.Question, 0, len(shared))
	for _, q := range shared {
		out = append(out, q.WithoutAnswerKey())
	}
	return out, nil
}

// ListQuestions pages through the whole catalog, answer keys included.
func (s *CatalogService) ListQuestions(ctx context.Context, page, limit int) (QuestionPage, error) {
	if page < 1 {
		return QuestionPage{}, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidInput)
	}
	if limit < 1 || limit > MaxPageSize {
		return QuestionPage{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, MaxPageSize)
	}

	questions, total, err := s.questions.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return QuestionPage{}, err
	}
	return QuestionPage{
		Questions:      questions,
		CurrentPage:    page,
		TotalPages:     (total + limit - 1) / limit,
		TotalQuestions: total,
	}, nil
}

func (s *CatalogService) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	return s.questions.Get(ctx, id)
}

func (s *CatalogService) CreateQuestion(ctx context.Context, in QuestionInput) (domain.Question, error) {
	q, err := buildQuestion(in)
	if err != nil {
		return domain.Question{}, err
	}
	q.ID = s.newID()
	q.CreatedAt = s.now().UTC()
	if err := s.questions.Create(ctx, q); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, id string, in QuestionInput) (domain.Question, error) {
	existing, err := s.questions.Get(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	q, err := buildQuestion(in)
	if err != nil {
		return domain.Question{}, err
	}
	updatedAt := s.now().UTC()
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = &updatedAt
	if err := s.questions.Update(ctx, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, id string) error {
	return s.questions.Delete(ctx, id)
}

// ImportQuestions replaces the catalog with the given bank, assigning set numbers in file
// order so that every set holds setSize questions except possibly the last.
func (s *CatalogService) ImportQuestions(ctx context.Context, bank []QuestionInput, setSize int) ([]domain.QuestionSetSummary, error) {
	if setSize < 1 {
		return nil, fmt.Errorf("%w: set size must be >= 1", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	questions := make([]domain.Question, 0, len(bank))
	for i, in := range bank {
		set := i/setSize + 1
		in.QuestionSet = &set
		q, err := buildQuestion(in)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		q.ID = s.newID()
		q.CreatedAt = now
		questions = append(questions, q)
	}

	if err := s.questions.ReplaceAll(ctx, questions); err != nil {
		return nil, fmt.Errorf("replace catalog: %w", err)
	}
	return s.questions.ListSets(ctx)
}

// buildQuestion validates input and derives has_multiple_answers.
func buildQuestion(in QuestionInput) (domain.Question, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.Question{}, fmt.Errorf("%w: question_text is required", domain.ErrInvalidInput)
	}
	if len(in.Options) == 0 {
		return domain.Question{}, fmt.Errorf("%w: options are required", domain.ErrInvalidInput)
	}
	if len(in.CorrectAnswers) == 0 {
		return domain.Question{}, fmt.Errorf("%w: correct_answers must not be empty", domain.ErrInvalidInput)
	}
	if in.QuestionSet == nil || *in.QuestionSet < 1 {
		return domain.Question{}, fmt.Errorf("%w: question_set must be >= 1", domain.ErrInvalidInput)
	}

	optionIDs := make(map[string]struct{}, len(in.Options))
	for _, opt := range in.Options {
		if opt.ID == "" {
			return domain.Question{}, fmt.Errorf("%w: option id is required", domain.ErrInvalidInput)
		}
		if _, dup := optionIDs[opt.ID]; dup {
			return domain.Question{}, fmt.Errorf("%w: duplicate option id %q", domain.ErrInvalidInput, opt.ID)
		}
		optionIDs[opt.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(in.CorrectAnswers))
	for _, id := range in.CorrectAnswers {
		if _, ok := optionIDs[id]; !ok {
			return domain.Question{}, fmt.Errorf("%w: correct answer %q is not an option", domain.ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return domain.Question{}, fmt.Errorf("%w: duplicate correct answer %q", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}
	difficulty := strings.TrimSpace(in.Difficulty)
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	return domain.Question{
		Text:               text,
		Options:            in.Options,
		CorrectAnswers:     in.CorrectAnswers,
		HasMultipleAnswers: len(in.CorrectAnswers) > 1,
		Category:           category,
		Difficulty:         difficulty,
		QuestionSet:        *in.QuestionSet,
	}, nil
}
