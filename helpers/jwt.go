package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v5"
)

// Tokens issues and checks the bearer tokens granted on login
type Tokens struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// CreateToken allows to create JWT tokens, the subject is the user id
func (t *Tokens) CreateToken(subject string) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS512, t.Secret)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	token, err := jwt.NewBuilder(signer).Build(&jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		Issuer:    t.Issuer,
	})
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// CheckToken verifies a token, with or without its "Bearer " prefix,
// and returns its subject
func (t *Tokens) CheckToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", errors.New("empty token")
	}

	verifier, err := jwt.NewVerifierHS(jwt.HS512, t.Secret)
	if err != nil {
		return "", err
	}

	var claims jwt.RegisteredClaims
	if err := jwt.ParseClaims([]byte(token), verifier, &claims); err != nil {
		return "", err
	}

	if !claims.IsValidAt(time.Now()) {
		return "", errors.New("invalid time")
	}

	if t.Issuer != "" && claims.Issuer != t.Issuer {
		return "", errors.New("invalid issuer")
	}

	if claims.Subject == "" {
		return "", errors.New("invalid subject")
	}

	return claims.Subject, nil
}
