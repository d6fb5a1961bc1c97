package domain

import (
	"encoding/json"
	"time"
)

// Attempt statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question models a single- or multi-answer MCQ belonging to a numbered question set.
type Question struct {
	ID                 string     `json:"id"`
	Text               string     `json:"question_text"`
	Options            []Option   `json:"options"`
	CorrectAnswers     []string   `json:"correct_answers,omitempty"`
	HasMultipleAnswers bool       `json:"has_multiple_answers"`
	Category           string     `json:"category"`
	Difficulty         string     `json:"difficulty"`
	QuestionSet        int        `json:"question_set"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// WithoutAnswerKey returns a copy that is safe to serve to quiz takers.
func (q Question) WithoutAnswerKey() Question {
	q.CorrectAnswers = nil
	return q
}

// QuestionSetSummary counts the questions grouped under one set number.
type QuestionSetSummary struct {
	SetNumber     int `json:"setNumber"`
	QuestionCount int `json:"questionCount"`
}

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
}

// Identity is the authenticated caller threaded through protected operations.
type Identity struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Session binds a server-side session id to an identity.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Answer is a user's selection for one question inside an attempt.
type Answer struct {
	QuestionID      string    `json:"question_id"`
	SelectedAnswers []string  `json:"selected_answers"`
	IsCorrect       bool      `json:"is_correct"`
	AnsweredAt      time.Time `json:"answered_at"`
}

// Attempt is one user's run through a question set.
type Attempt struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	UserName          string     `json:"user_name"`
	QuestionSetNumber int        `json:"question_set_number"`
	Status            string     `json:"status"`
	Answers           []Answer   `json:"answers"`
	Score             int        `json:"score"`
	TotalQuestions    int        `json:"total_questions"`
	CreatedAt         time.Time  `json:"created_at"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// RecordAnswer replaces the answer for the same question in place or appends a new one,
// then recomputes score and total so both always agree with the answer list.
func (a *Attempt) RecordAnswer(answer Answer) {
	replaced := false
	for i := range a.Answers {
		if a.Answers[i].QuestionID == answer.QuestionID {
			a.Answers[i] = answer
			replaced = true
			break
		}
	}
	if !replaced {
		a.Answers = append(a.Answers, answer)
	}

	score := 0
	for _, existing := range a.Answers {
		if existing.IsCorrect {
			score++
		}
	}
	a.Score = score
	a.TotalQuestions = len(a.Answers)
}

// Complete marks the attempt finished. Completing twice only moves the timestamp.
func (a *Attempt) Complete(now time.Time) {
	a.Status = StatusCompleted
	a.CompletedAt = &now
}

// AnswerResult is the feedback returned after a single submission.
type AnswerResult struct {
	IsCorrect      bool     `json:"isCorrect"`
	CorrectAnswers []string `json:"correctAnswers"`
	CurrentScore   int      `json:"currentScore"`
	TotalAnswered  int      `json:"totalAnswered"`
}

// DetailedAnswer joins a stored answer with the question it refers to.
type DetailedAnswer struct {
	QuestionID      string    `json:"question_id"`
	QuestionText    string    `json:"question_text"`
	Options         []Option  `json:"options"`
	SelectedAnswers []string  `json:"selected_answers"`
	CorrectAnswers  []string  `json:"correct_answers"`
	IsCorrect       bool      `json:"is_correct"`
	AnsweredAt      time.Time `json:"answered_at"`
}

// AttemptDetail is the post-hoc review of an attempt.
type AttemptDetail struct {
	Attempt
	DetailedAnswers []DetailedAnswer `json:"detailed_answers"`
}

// CodingExample is an illustrative input/output pair shown with a problem.
type CodingExample struct {
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation"`
}

// CodingTestCase is kept server-side only; nothing grades against it yet.
type CodingTestCase struct {
	Input  json.RawMessage `json:"input"`
	Output json.RawMessage `json:"output"`
}

// CodingQuestion is a practice problem for a given language.
type CodingQuestion struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Language    string           `json:"language"`
	Difficulty  string           `json:"difficulty"`
	Description string           `json:"description"`
	Examples    []CodingExample  `json:"examples"`
	Constraints string           `json:"constraints"`
	StarterCode string           `json:"starter_code"`
	TestCases   []CodingTestCase `json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
}

// CodingSubmission records code sent for grading.
type CodingSubmission struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	QuestionID  string    `json:"question_id"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	SubmittedAt time.Time `json:"submitted_at"`
}
