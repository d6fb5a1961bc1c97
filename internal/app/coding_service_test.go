package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-exam-service/internal/app"
	"quiz-exam-service/internal/domain"
	"quiz-exam-service/internal/infra/memory"
)

func TestCodingSubmitPersistsOnlyForSignedInCallers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCodingStore()
	service := app.NewCodingService(store)

	n, err := service.SeedQuestions(ctx, []domain.CodingQuestion{
		{Title: "Two Sum", Language: " Python ", Difficulty: "Easy"},
		{Title: "Reverse List", Language: "go", Difficulty: "Easy"},
	})
	if err != nil || n != 2 {
		t.Fatalf("seed: n=%d err=%v", n, err)
	}

	python, err := service.ListQuestions(ctx, "PYTHON")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(python) != 1 || python[0].Language != "python" || python[0].ID == "" {
		t.Fatalf("unexpected python list %+v", python)
	}
	all, _ := service.ListQuestions(ctx, "")
	if len(all) != 2 {
		t.Fatalf("expected both problems, got %d", len(all))
	}

	in := app.SubmitCodeInput{QuestionID: python[0].ID, Language: "python", Code: "print(1)"}
	sub, persisted, err := service.Submit(ctx, domain.Identity{}, in)
	if err != nil {
		t.Fatalf("anonymous submit: %v", err)
	}
	if persisted || sub.ID != "" || len(store.Submissions()) != 0 {
		t.Fatalf("anonymous submit should not persist: %+v", sub)
	}

	sub, persisted, err = service.Submit(ctx, domain.Identity{UserID: "u1"}, in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !persisted || sub.ID == "" || sub.UserID != "u1" {
		t.Fatalf("unexpected submission %+v", sub)
	}
	if got := store.Submissions(); len(got) != 1 || got[0].Code != "print(1)" {
		t.Fatalf("unexpected stored submissions %+v", got)
	}

	in.QuestionID = "missing"
	if _, _, err := service.Submit(ctx, domain.Identity{UserID: "u1"}, in); !errors.Is(err, domain.ErrCodingQuestionNotFound) {
		t.Fatalf("expected coding question not found, got %v", err)
	}
}

func TestCodingRunIsNotImplemented(t *testing.T) {
	service := app.NewCodingService(memory.NewCodingStore())
	err := service.Run(context.Background(), app.SubmitCodeInput{Language: "go", Code: "package main"})
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected not implemented, got %v", err)
	}
	err = service.Run(context.Background(), app.SubmitCodeInput{Language: "go"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty code, got %v", err)
	}
}

func TestSeedQuestionsRejectsUntitled(t *testing.T) {
	service := app.NewCodingService(memory.NewCodingStore())
	n, err := service.SeedQuestions(context.Background(), []domain.CodingQuestion{
		{Title: "ok", Language: "go"},
		{Language: "go"},
	})
	if !errors.Is(err, domain.ErrInvalidInput) || n != 1 {
		t.Fatalf("expected failure at index 1, got n=%d err=%v", n, err)
	}
}
