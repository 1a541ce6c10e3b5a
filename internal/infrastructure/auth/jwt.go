package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/membergate/membergate/internal/shared/biztime"
)

type TokenType string

const (
	TokenTypeSession TokenType = "session"
	TokenTypeNonce   TokenType = "nonce"
)

var ErrInvalidToken = errors.New("invalid token")

type SessionClaims struct {
	UserID    uint      `json:"uid"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionService signs and verifies the session cookie token.
type SessionService struct {
	secret     []byte
	expMinutes int
}

func NewSessionService(secret string, expMinutes int) *SessionService {
	if expMinutes <= 0 {
		expMinutes = 24 * 60
	}
	return &SessionService{secret: []byte(secret), expMinutes: expMinutes}
}

// Issue returns a session token for userID and its lifetime in seconds.
func (s *SessionService) Issue(userID uint) (string, int64, error) {
	now := biztime.NowUTC()
	claims := &SessionClaims{
		UserID:    userID,
		TokenType: TokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, int64(s.lifetime().Seconds()), nil
}

func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parseHS256(tokenString, claims, s.secret); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeSession || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ShouldRefresh reports whether less than a fifth of the lifetime remains.
func (s *SessionService) ShouldRefresh(claims *SessionClaims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return biztime.NowUTC().Add(s.lifetime() / 5).After(claims.ExpiresAt.Time)
}

func (s *SessionService) MaxAgeSeconds() int {
	return s.expMinutes * 60
}

func (s *SessionService) lifetime() time.Duration {
	return time.Duration(s.expMinutes) * time.Minute
}

func parseHS256(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
