package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenCarriesRole(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, "acme@example.com", "organization")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "organization", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, svc.IsRefreshToken(claims))
}

func TestRefreshToken(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)

	tok, err := svc.GenerateRefreshToken(uuid.New(), "candidate")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.True(t, svc.IsRefreshToken(claims))
	assert.Equal(t, "candidate", claims.Role)
}

func TestExpiredToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour).
		WithClock(func() time.Time { return now })

	tok, err := svc.GenerateAccessToken(uuid.New(), "", "candidate")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGarbageToken(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenTypeMustMatchSecret(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()
	now := time.Now()

	// Signed with the access secret but claiming to be a refresh token.
	forged := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID:    id,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.String(),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Minute)),
		},
	})
	tok, err := forged.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestForeignIssuerRejected(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	other := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID:    id,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   id.String(),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	tok, err := other.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
