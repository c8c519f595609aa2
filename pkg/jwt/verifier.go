package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingUser  = errors.New("token has no subject")
)

// Verifier checks HS256 session tokens issued by the auth backend and reads
// the user id from the subject claim.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Parse validates the signature and expiry and returns the user id.
func (v *Verifier) Parse(raw string) (string, error) {
	token, err := v.ParseToken(raw)
	if err != nil {
		return "", err
	}
	return UserID(token)
}

// ParseToken returns the validated token. It is plugged into the echo-jwt
// middleware as its ParseTokenFunc.
func (v *Verifier) ParseToken(raw string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := UserID(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Sign issues a token for userID. The production tokens come from the auth
// backend; this is used by tooling and tests sharing the same secret.
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func UserID(token *jwt.Token) (string, error) {
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrMissingUser
	}
	return sub, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return v.secret, nil
}
