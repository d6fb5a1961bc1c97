package memory

import (
	"context"
	"sync"
	"time"

	"quiz-exam-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository keyed by email.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return domain.ErrEmailTaken
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) TouchLastActive(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, user := range s.byEmail {
		if user.ID == id {
			user.LastActive = at
			s.byEmail[email] = user
			return nil
		}
	}
	return domain.ErrUserNotFound
}
