package cli

import (
	"os"
	"testing"
)

func TestParseQuestionBankFormats(t *testing.T) {
	data := []byte(`[
		{"question_text": "single", "options": {"B": "two", "A": "one"}, "correct_answer": "B"},
		{"question_text": "multi", "options": {"A": "one", "B": "two", "C": "three"}, "correct_answer": ["A", "C"], "category": "Networking", "difficulty": "Hard"},
		{"question_text": "exported", "options": [{"id": "x", "text": "X"}, {"id": "y", "text": "Y"}], "correct_answers": ["y"]}
	]`)

	bank, err := parseQuestionBank(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(bank) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(bank))
	}

	if got := bank[0].Options; len(got) != 2 || got[0].ID != "A" || got[1].Text != "two" {
		t.Fatalf("object options should be ordered by id: %+v", got)
	}
	if got := bank[0].CorrectAnswers; len(got) != 1 || got[0] != "B" {
		t.Fatalf("single correct_answer not wrapped: %v", got)
	}
	if got := bank[1].CorrectAnswers; len(got) != 2 || bank[1].Category != "Networking" || bank[1].Difficulty != "Hard" {
		t.Fatalf("unexpected multi question %+v", bank[1])
	}
	if got := bank[2].Options; len(got) != 2 || got[0].ID != "x" || bank[2].CorrectAnswers[0] != "y" {
		t.Fatalf("unexpected exported question %+v", bank[2])
	}
}

func TestParseQuestionBankRejectsMalformed(t *testing.T) {
	if _, err := parseQuestionBank([]byte(`{"not": "a list"}`)); err == nil {
		t.Fatalf("expected error for non-array bank")
	}
	if _, err := parseQuestionBank([]byte(`[{"question_text": "q", "options": 7, "correct_answer": "A"}]`)); err == nil {
		t.Fatalf("expected error for numeric options")
	}
}

func TestParseCodingSeedFile(t *testing.T) {
	data, err := os.ReadFile("../../seeds/coding_questions.yaml")
	if err != nil {
		t.Fatalf("read seed file: %v", err)
	}
	questions, err := parseCodingSeed(data)
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	if len(questions) < 3 {
		t.Fatalf("expected several seeded problems, got %d", len(questions))
	}

	first := questions[0]
	if first.Title != "Two Sum" || first.Language != "python" || len(first.Examples) != 2 {
		t.Fatalf("unexpected first problem %+v", first)
	}
	if len(first.TestCases) != 3 {
		t.Fatalf("expected 3 test cases, got %d", len(first.TestCases))
	}
	if got := string(first.TestCases[0].Output); got != "[0,1]" {
		t.Fatalf("test case output should be JSON, got %s", got)
	}
}
