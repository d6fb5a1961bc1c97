package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-exam-service/internal/domain"
)

const questionColumns = `id, question_text, options, correct_answers, has_multiple_answers,
	category, difficulty, question_set, created_at, updated_at`

// QuestionStore keeps the question catalog in Postgres with options and answer keys as JSONB.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) ListSets(ctx context.Context) ([]domain.QuestionSetSummary, error) {
	rows, err := s.pool.Query(ctx, `SELECT question_set, count(*) FROM questions GROUP BY question_set ORDER BY question_set`)
	if err != nil {
		return nil, fmt.Errorf("list question sets: %w", err)
	}
	defer rows.Close()

	sets := make([]domain.QuestionSetSummary, 0)
	for rows.Next() {
		var set domain.QuestionSetSummary
		if err := rows.Scan(&set.SetNumber, &set.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan question set: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (s *QuestionStore) ListBySet(ctx context.Context, setNumber int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions
		WHERE question_set = $1 ORDER BY created_at, id`, setNumber)
	if err != nil {
		return nil, fmt.Errorf("list questions in set %d: %w", setNumber, err)
	}
	return collectQuestions(rows)
}

func (s *QuestionStore) List(ctx context.Context, offset, limit int) ([]domain.Question, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions
		ORDER BY question_set, created_at, id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	questions, err := collectQuestions(rows)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (s *QuestionStore) Get(ctx context.Context, id string) (domain.Question, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (s *QuestionStore) Create(ctx context.Context, q domain.Question) error {
	return insertQuestion(ctx, s.pool, q)
}

func (s *QuestionStore) Update(ctx context.Context, q domain.Question) error {
	options, correct, err := encodeQuestion(q)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE questions SET
			question_text = $2, options = $3::jsonb, correct_answers = $4::jsonb,
			has_multiple_answers = $5, category = $6, difficulty = $7,
			question_set = $8, updated_at = $9
		WHERE id = $1`,
		q.ID, q.Text, options, correct, q.HasMultipleAnswers, q.Category, q.Difficulty, q.QuestionSet, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) ReplaceAll(ctx context.Context, questions []domain.Question) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	for _, q := range questions {
		if err := insertQuestion(ctx, tx, q); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func insertQuestion(ctx context.Context, db execer, q domain.Question) error {
	options, correct, err := encodeQuestion(q)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `INSERT INTO questions (`+questionColumns+`)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5, $6, $7, $8, $9, $10)`,
		q.ID, q.Text, options, correct, q.HasMultipleAnswers, q.Category, q.Difficulty, q.QuestionSet, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func encodeQuestion(q domain.Question) (string, string, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return "", "", fmt.Errorf("marshal options: %w", err)
	}
	correct, err := json.Marshal(q.CorrectAnswers)
	if err != nil {
		return "", "", fmt.Errorf("marshal correct answers: %w", err)
	}
	return string(options), string(correct), nil
}

func collectQuestions(rows pgx.Rows) ([]domain.Question, error) {
	defer rows.Close()
	questions := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q       domain.Question
		options []byte
		correct []byte
	)
	err := row.Scan(&q.ID, &q.Text, &options, &correct, &q.HasMultipleAnswers,
		&q.Category, &q.Difficulty, &q.QuestionSet, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return domain.Question{}, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	if err := json.Unmarshal(correct, &q.CorrectAnswers); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal correct answers: %w", err)
	}
	return q, nil
}
