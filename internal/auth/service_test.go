package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(repo.NewInMemoryUserRepository(), NewMemoryRevocations(), []byte("test-secret"), time.Hour)
}

func TestService_SignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	up, err := svc.SignUp(ctx, "  Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", up.Email)
	assert.NotEmpty(t, up.Token)
	assert.NotEmpty(t, up.UserID)

	in, err := svc.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, up.UserID, in.UserID)
	assert.NotEqual(t, up.ID, in.ID)
}

func TestService_SignUpErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "ADA@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignUp(ctx, "bola@example.com", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.SignUp(ctx, "   ", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SignInInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, _ = svc.SignUp(ctx, "ada@example.com", "secret1")

	_, err := svc.SignIn(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SignOutRevokesToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	s, err := svc.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	got, err := svc.Verify(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)

	require.NoError(t, svc.SignOut(ctx, s.Token))
	_, err = svc.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.ErrorIs(t, svc.SignOut(ctx, "garbage"), ErrInvalidToken)
}

func TestMemoryRevocations_ForgetExpiredEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRevocations()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "s1", now.Add(time.Minute)))
	revoked, _ := m.IsRevoked(ctx, "s1")
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = m.IsRevoked(ctx, "s1")
	assert.False(t, revoked)
}
