package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"quiz-exam-service/internal/domain"
)

const tokenIssuer = "quiz-exam-service"

// AuthOptions configures session issuance.
type AuthOptions struct {
	Secret     string
	SessionTTL time.Duration
	// HashCost defaults to bcrypt.DefaultCost; tests lower it to bcrypt.MinCost.
	HashCost int
}

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// sessionClaims are signed into the session cookie. The session itself lives server-side,
// so revoking it on logout invalidates the token even before it expires.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthService registers users and issues, resolves, and revokes sessions.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	secret   []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time
	newID    func() string
}

func NewAuthService(users UserRepository, sessions SessionRepository, opts AuthOptions) (*AuthService, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		secret:   []byte(opts.Secret),
		ttl:      opts.SessionTTL,
		cost:     opts.HashCost,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// SessionTTL is how long issued sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return domain.User{}, "", fmt.Errorf("%w: all fields are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: malformed email", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           s.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		LastActive:   now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login checks credentials, refreshes last-active, and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.TouchLastActive(ctx, user.ID, now); err != nil {
		return domain.User{}, "", fmt.Errorf("update last active: %w", err)
	}
	user.LastActive = now

	token, err := s.issue(ctx, user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Authenticate resolves a session token to the caller's identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.Identity{}, err
	}
	if session.Identity.UserID != claims.Subject || !session.ExpiresAt.After(s.now()) {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return session.Identity, nil
}

// Logout revokes the session behind token. Unknown or malformed tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	err = s.sessions.Delete(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *AuthService) issue(ctx context.Context, user domain.User) (string, error) {
	now := s.now()
	session := domain.Session{
		ID:        s.newID(),
		Identity:  domain.Identity{UserID: user.ID, Name: user.Name, Email: user.Email},
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.ttl).UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	claims := sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, errors.New("session token missing claims")
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
