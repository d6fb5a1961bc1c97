package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"quiz-exam-service/internal/domain"
)

// AttemptStore persists attempts through bun. Update locks the attempt row for the whole
// read-modify-write so concurrent submissions to one attempt are applied one after another.
type AttemptStore struct {
	db *bun.DB
}

func NewAttemptStore(db *bun.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Create(ctx context.Context, attempt domain.Attempt) error {
	if _, err := s.db.NewInsert().Model(newAttemptRow(attempt)).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Get(ctx context.Context, id string) (domain.Attempt, error) {
	row := new(attemptRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	return attemptResult(row, err)
}

func (s *AttemptStore) GetForUser(ctx context.Context, id, userID string) (domain.Attempt, error) {
	row := new(attemptRow)
	err := s.db.NewSelect().Model(row).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Scan(ctx)
	return attemptResult(row, err)
}

func (s *AttemptStore) ListByUser(ctx context.Context, userID, status string) ([]domain.Attempt, error) {
	var rows []attemptRow
	q := s.db.NewSelect().Model(&rows).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.OrderExpr("created_at DESC, id DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	out := make([]domain.Attempt, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *AttemptStore) Update(ctx context.Context, id string, fn func(*domain.Attempt) error) (domain.Attempt, error) {
	var updated domain.Attempt
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(attemptRow)
		err := tx.NewSelect().Model(row).Where("id = ?", id).For("UPDATE").Scan(ctx)
		current, err := attemptResult(row, err)
		if err != nil {
			return err
		}

		if err := fn(&current); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model(newAttemptRow(current)).
			Column("status", "answers", "score", "total_questions", "completed_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update attempt: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return domain.Attempt{}, err
	}
	return updated, nil
}

func attemptResult(row *attemptRow, err error) (domain.Attempt, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("load attempt: %w", err)
	}
	return row.toDomain(), nil
}
