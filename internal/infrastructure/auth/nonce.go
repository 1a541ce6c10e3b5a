package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/membergate/membergate/internal/shared/biztime"
)

const defaultNonceLifetime = 12 * time.Hour

type NonceClaims struct {
	Action    string    `json:"act"`
	UserID    uint      `json:"uid"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// NonceService issues anti-forgery tokens bound to one action and one user.
type NonceService struct {
	secret   []byte
	lifetime time.Duration
}

func NewNonceService(secret string, lifetimeHours int) *NonceService {
	lifetime := time.Duration(lifetimeHours) * time.Hour
	if lifetime <= 0 {
		lifetime = defaultNonceLifetime
	}
	return &NonceService{secret: []byte(secret), lifetime: lifetime}
}

func (s *NonceService) Issue(action string, userID uint) (string, error) {
	now := biztime.NowUTC()
	claims := &NonceClaims{
		Action:    action,
		UserID:    userID,
		TokenType: TokenTypeNonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign nonce: %w", err)
	}
	return token, nil
}

// Verify fails unless token was issued by this service for action and
// userID and has not expired.
func (s *NonceService) Verify(token, action string, userID uint) error {
	if token == "" {
		return fmt.Errorf("%w: empty nonce", ErrInvalidToken)
	}
	claims := &NonceClaims{}
	if err := parseHS256(token, claims, s.secret); err != nil {
		return err
	}
	if claims.TokenType != TokenTypeNonce || claims.Action != action || claims.UserID != userID {
		return fmt.Errorf("%w: nonce does not match action or user", ErrInvalidToken)
	}
	return nil
}
