package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/models"
	"github.com/rogerio-castellano/sabiboss/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Service is the auth backend: it owns users and issues, verifies and
// revokes session tokens.
type Service struct {
	users   repo.UserRepository
	revoked RevocationStore
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewService(users repo.UserRepository, revoked RevocationStore, secret []byte, ttl time.Duration) *Service {
	return &Service{
		users:   users,
		revoked: revoked,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
	}
}

// SignUp registers a new user and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Session{}, ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return Session{}, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{Email: email, PasswordHash: string(hashed)})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return Session{}, ErrEmailTaken
	}
	if err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(user)
}

// SignOut revokes token. Signing out of an already expired session succeeds.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := ParseToken(token, s.secret, s.now)
	if errors.Is(err, ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Verify returns the live session behind token.
func (s *Service) Verify(ctx context.Context, token string) (Session, error) {
	claims, err := ParseToken(token, s.secret, s.now)
	if err != nil {
		return Session{}, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return Session{}, ErrInvalidToken
	}
	return sessionFromClaims(token, claims), nil
}

func (s *Service) issue(user models.User) (Session, error) {
	token, claims, err := GenerateToken(user.ID, user.Email, s.secret, s.now(), s.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return sessionFromClaims(token, claims), nil
}

func sessionFromClaims(token string, c *Claims) Session {
	return Session{
		ID:        c.ID,
		Token:     token,
		UserID:    c.Subject,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}
}
