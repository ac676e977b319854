package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		useruid  string
	}{
		{
			name:     "regular user",
			username: "regularuser",
			useruid:  "0b3e7a45-9c1f-4f85-9a9f-0d9f8c1f4a11",
		},
		{
			name:     "user with numbers in username",
			username: "user123",
			useruid:  "5c9a2a1e-6f27-4a7e-8f0c-2f34b2f3d001",
		},
		{
			name:     "user with email username",
			username: "user@domain.com",
			useruid:  "d1a8f6b2-74f4-4a4e-8f11-58be2b2c9a77",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.useruid)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.useruid, claims.UserUID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	otherMaker := NewJWTMaker("another_secret_key", tokenTTL)
	foreignToken, err := otherMaker.GenerateToken("testuser", "uid-1")
	require.NoError(t, err)

	expiredMaker := NewJWTMaker(secretKey, -time.Minute)
	expiredToken, err := expiredMaker.GenerateToken("testuser", "uid-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "token signed with another key",
			token: foreignToken,
		},
		{
			name:  "expired token",
			token: expiredToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
