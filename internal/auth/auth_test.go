package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("s3cret", time.Hour)

	token, expires, err := svc.Issue("c-1", "Ana", "corretor")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "c-1", claims.CorretorID)
	assert.Equal(t, "Ana", claims.Nome)
	assert.Equal(t, "corretor", claims.Role)
	assert.Equal(t, "c-1", claims.Subject)
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	token, _, err := NewTokenService("other", time.Hour).Issue("c-1", "", "corretor")
	require.NoError(t, err)

	_, err = NewTokenService("s3cret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenService("s3cret", time.Hour).Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &TokenService{secret: []byte("s3cret"), ttl: -time.Minute, issuer: "test"}
	token, _, err = expired.Issue("c-1", "", "corretor")
	require.NoError(t, err)
	_, err = expired.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("senha-forte")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "senha-forte"))
	assert.ErrorIs(t, CheckPassword(hash, "errada"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("", "senha-forte"), ErrInvalidCredentials)
}
