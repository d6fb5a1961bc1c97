package domain

import "errors"

var (
	// ErrInvalidInput marks a missing or malformed field; wrap it with the field detail.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptNotFound is returned for unknown attempts and for attempts owned by someone else.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptCompleted rejects answers sent after an attempt was completed.
	ErrAttemptCompleted = errors.New("attempt already completed")
	// ErrUserNotFound indicates no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated means the caller has no valid session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrSessionNotFound indicates the session expired or was revoked.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCodingQuestionNotFound indicates the referenced coding problem does not exist.
	ErrCodingQuestionNotFound = errors.New("coding question not found")
	// ErrNotImplemented is returned by the code execution endpoints.
	ErrNotImplemented = errors.New("code execution is not implemented")
)
