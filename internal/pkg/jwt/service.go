package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	issuer = "loker"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload of both token kinds. Role is the account role at
// issue time; refresh tokens carry it too so a refresh never asks the client.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email, role string) (string, error)
	GenerateRefreshToken(userID uuid.UUID, role string) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool
}

type signingKey struct {
	secret   []byte
	lifetime time.Duration
}

// HMACService signs each token kind with its own secret. Validation picks
// the secret from the token_type claim, so an access secret never verifies
// a token that claims to be a refresh token.
type HMACService struct {
	keys map[string]signingKey
	now  func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessExpiresIn, refreshExpiresIn time.Duration) *HMACService {
	return &HMACService{
		keys: map[string]signingKey{
			TokenTypeAccess:  {secret: []byte(accessSecret), lifetime: accessExpiresIn},
			TokenTypeRefresh: {secret: []byte(refreshSecret), lifetime: refreshExpiresIn},
		},
		now: time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating.
func (s *HMACService) WithClock(now func() time.Time) *HMACService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Email: email, Role: role, TokenType: TokenTypeAccess})
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role, TokenType: TokenTypeRefresh})
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func (s *HMACService) sign(c Claims) (string, error) {
	key, ok := s.key(c.TokenType)
	if !ok {
		return "", ErrTokenInvalid
	}

	issuedAt := s.now().UTC()
	c.RegisteredClaims = jwtlib.RegisteredClaims{
		Issuer:    issuer,
		Subject:   c.UserID.String(),
		IssuedAt:  jwtlib.NewNumericDate(issuedAt),
		ExpiresAt: jwtlib.NewNumericDate(issuedAt.Add(key.lifetime)),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(key.secret)
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	_, err := p.ParseWithClaims(tokenString, &c, func(t *jwtlib.Token) (any, error) {
		claims, ok := t.Claims.(*Claims)
		if !ok {
			return nil, ErrTokenInvalid
		}
		key, ok := s.key(claims.TokenType)
		if !ok {
			return nil, ErrTokenInvalid
		}
		return key.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	default:
		return Claims{}, ErrTokenInvalid
	}

	if c.UserID == uuid.Nil || c.Subject != c.UserID.String() {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

// key reports a usable secret and lifetime for tokenType.
func (s *HMACService) key(tokenType string) (signingKey, bool) {
	k, ok := s.keys[tokenType]
	if !ok || len(k.secret) == 0 || k.lifetime <= 0 {
		return signingKey{}, false
	}
	return k, true
}
