package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "s3cretpass"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword(nil, "s3cretpass"), ErrInvalidCredentials)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestSessions_IssueAndParse(t *testing.T) {
	s := NewSessions("secret", time.Hour)

	token, err := s.Issue(42)
	require.NoError(t, err)

	id, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestSessions_TokensAreUnique(t *testing.T) {
	s := NewSessions("secret", time.Hour)

	a, err := s.Issue(1)
	require.NoError(t, err)
	b, err := s.Issue(1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSessions_Rejects(t *testing.T) {
	s := NewSessions("secret", time.Hour)
	token, err := s.Issue(7)
	require.NoError(t, err)

	_, err = NewSessions("other-secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Истекший токен
	expired := NewSessions("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Issue(7)
	require.NoError(t, err)
	_, err = s.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSessions_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewSessions("x", 0).TTL())
}
