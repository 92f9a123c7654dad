package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/recrutai/platform/internal/utils"
)

type Kind string

const (
	KindCandidate Kind = "candidate"
	KindCompany   Kind = "company"
)

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Kind  Kind   `json:"kind"`
}

// Issuer signs and verifies HS256 session tokens for both principal kinds.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(kind Kind, subject, email string) (string, time.Time, error) {
	const op = "Issuer.Issue"
	if subject == "" {
		return "", time.Time{}, utils.E(utils.CodeInternal, op, "missing subject", nil)
	}

	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: email,
		Kind:  kind,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return tok, exp, nil
}

func (i *Issuer) Verify(raw string) (*Claims, error) {
	const op = "Issuer.Verify"
	if raw == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing bearer token", nil)
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || tok == nil || !tok.Valid {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return nil, utils.E(utils.CodeUnauthorized, op, msg, err)
	}

	if claims.Subject == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "missing subject", nil)
	}
	switch claims.Kind {
	case KindCandidate, KindCompany:
	default:
		return nil, utils.E(utils.CodeUnauthorized, op, "unknown principal kind", nil)
	}
	return claims, nil
}
