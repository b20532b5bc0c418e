package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, -time.Minute, 7)
	require.NoError(t, err)

	userID, err := ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Zero(t, userID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("another-secret", time.Hour, 7)
	require.NoError(t, err)

	userID, err := ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Zero(t, userID)
}

func TestParseToken_TamperedPayload(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, 7)
	require.NoError(t, err)

	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	userID, err := ParseToken(testSecret, string(tampered))
	require.Error(t, err)
	assert.Zero(t, userID)
	assert.True(t,
		err == ErrInvalidSignature || err == ErrTokenMalformed,
		"tampered token must fail as invalid signature or malformed, got %v", err)
}

func TestParseToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		userID, err := ParseToken(testSecret, token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
		assert.Zero(t, userID)
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	userID, err := ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
	assert.Zero(t, userID)
}

func TestParseToken_NonNumericSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
