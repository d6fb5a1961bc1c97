package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-exam-service/internal/domain"
)

const codingColumns = `id, title, language, difficulty, description, examples,
	constraints, starter_code, test_cases, created_at`

// CodingStore keeps practice problems and submissions in Postgres.
type CodingStore struct {
	pool *pgxpool.Pool
}

func NewCodingStore(pool *pgxpool.Pool) *CodingStore {
	return &CodingStore{pool: pool}
}

func (s *CodingStore) ListQuestions(ctx context.Context, language string) ([]domain.CodingQuestion, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+codingColumns+` FROM coding_questions
		WHERE $1 = '' OR language = $1 ORDER BY created_at, title`, language)
	if err != nil {
		return nil, fmt.Errorf("list coding questions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CodingQuestion, 0)
	for rows.Next() {
		q, err := scanCodingQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coding question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *CodingStore) GetQuestion(ctx context.Context, id string) (domain.CodingQuestion, error) {
	q, err := scanCodingQuestion(s.pool.QueryRow(ctx, `SELECT `+codingColumns+` FROM coding_questions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CodingQuestion{}, domain.ErrCodingQuestionNotFound
	}
	if err != nil {
		return domain.CodingQuestion{}, fmt.Errorf("load coding question: %w", err)
	}
	return q, nil
}

func (s *CodingStore) CreateQuestion(ctx context.Context, q domain.CodingQuestion) error {
	examples, err := json.Marshal(nonNilExamples(q.Examples))
	if err != nil {
		return fmt.Errorf("marshal examples: %w", err)
	}
	testCases, err := json.Marshal(nonNilTestCases(q.TestCases))
	if err != nil {
		return fmt.Errorf("marshal test cases: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO coding_questions (`+codingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9::jsonb, $10)`,
		q.ID, q.Title, q.Language, q.Difficulty, q.Description, string(examples),
		q.Constraints, q.StarterCode, string(testCases), q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert coding question: %w", err)
	}
	return nil
}

func (s *CodingStore) CreateSubmission(ctx context.Context, sub domain.CodingSubmission) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO coding_submissions (id, user_id, question_id, language, code, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.UserID, sub.QuestionID, sub.Language, sub.Code, sub.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert coding submission: %w", err)
	}
	return nil
}

func scanCodingQuestion(row pgx.Row) (domain.CodingQuestion, error) {
	var (
		q         domain.CodingQuestion
		examples  []byte
		testCases []byte
	)
	err := row.Scan(&q.ID, &q.Title, &q.Language, &q.Difficulty, &q.Description, &examples,
		&q.Constraints, &q.StarterCode, &testCases, &q.CreatedAt)
	if err != nil {
		return domain.CodingQuestion{}, err
	}
	if err := json.Unmarshal(examples, &q.Examples); err != nil {
		return domain.CodingQuestion{}, fmt.Errorf("unmarshal examples: %w", err)
	}
	if err := json.Unmarshal(testCases, &q.TestCases); err != nil {
		return domain.CodingQuestion{}, fmt.Errorf("unmarshal test cases: %w", err)
	}
	return q, nil
}

func nonNilExamples(v []domain.CodingExample) []domain.CodingExample {
	if v == nil {
		return []domain.CodingExample{}
	}
	return v
}

func nonNilTestCases(v []domain.CodingTestCase) []domain.CodingTestCase {
	if v == nil {
		return []domain.CodingTestCase{}
	}
	return v
}
