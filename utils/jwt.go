package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type CustomClaims struct {
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	BranchID *uint  `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	blacklist *TokenBlacklist
	now       func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration, blacklist *TokenBlacklist) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if blacklist == nil {
		blacklist = NewTokenBlacklist()
	}
	return &TokenIssuer{
		secret:    []byte(secret),
		issuer:    issuer,
		ttl:       ttl,
		blacklist: blacklist,
		now:       time.Now,
	}
}

func (t *TokenIssuer) GenerateToken(userID uint, role string, branchID *uint) (string, error) {
	now := t.now()
	claims := &CustomClaims{
		UserID:   userID,
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) ParseToken(tokenString string) (*CustomClaims, error) {
	if t.blacklist.Contains(tokenString) {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke blacklists a token until it would have expired anyway.
func (t *TokenIssuer) Revoke(tokenString string) {
	expiry := t.now().Add(t.ttl)
	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err == nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	t.blacklist.Add(tokenString, expiry)
}
