package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"quiz-exam-service/internal/domain"
)

func TestAttemptStoreSerializesUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	_ = store.Create(ctx, domain.Attempt{ID: "a1", UserID: "u1", Status: domain.StatusInProgress})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, "a1", func(a *domain.Attempt) error {
				a.RecordAnswer(domain.Answer{QuestionID: fmt.Sprintf("q%d", i), IsCorrect: i%2 == 0})
				return nil
			})
			if err != nil {
				t.Errorf("update: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := store.Get(ctx, "a1")
	if got.TotalQuestions != 50 || len(got.Answers) != 50 {
		t.Fatalf("expected 50 answers, got total=%d len=%d", got.TotalQuestions, len(got.Answers))
	}
	if got.Score != 25 {
		t.Fatalf("expected score 25, got %d", got.Score)
	}
}

func TestAttemptStoreUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	_ = store.Create(ctx, domain.Attempt{ID: "a1", UserID: "u1", Status: domain.StatusInProgress})

	boom := errors.New("boom")
	_, err := store.Update(ctx, "a1", func(a *domain.Attempt) error {
		a.RecordAnswer(domain.Answer{QuestionID: "q1", IsCorrect: true})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := store.Get(ctx, "a1")
	if len(got.Answers) != 0 {
		t.Fatalf("failed update must not persist, got %+v", got.Answers)
	}

	if _, err := store.Update(ctx, "missing", func(*domain.Attempt) error { return nil }); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttemptStoreListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_ = store.Create(ctx, domain.Attempt{ID: "old", UserID: "u1", Status: domain.StatusCompleted, CreatedAt: base})
	_ = store.Create(ctx, domain.Attempt{ID: "new", UserID: "u1", Status: domain.StatusInProgress, CreatedAt: base.Add(time.Hour)})
	_ = store.Create(ctx, domain.Attempt{ID: "other", UserID: "u2", Status: domain.StatusInProgress, CreatedAt: base})

	all, _ := store.ListByUser(ctx, "u1", "")
	if len(all) != 2 || all[0].ID != "new" || all[1].ID != "old" {
		t.Fatalf("expected newest first for u1, got %+v", all)
	}
	completed, _ := store.ListByUser(ctx, "u1", domain.StatusCompleted)
	if len(completed) != 1 || completed[0].ID != "old" {
		t.Fatalf("expected only completed attempt, got %+v", completed)
	}

	if _, err := store.GetForUser(ctx, "other", "u1"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected foreign attempt hidden, got %v", err)
	}
}
