package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every way a bearer token can fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload: the admin id and email plus registered claims.
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with one shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the administrator and returns it with its expiry.
func (i *Issuer) Issue(id, email string) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := Claims{
		AdminID: id,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the Admin the
// token was issued for. Any failure is reported as ErrInvalidToken wrapping
// the parser's reason.
func (i *Issuer) Verify(raw string) (Admin, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Admin{}, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid || claims.AdminID == "" {
		return Admin{}, ErrInvalidToken
	}
	return Admin{id: claims.AdminID, email: claims.Email}, nil
}
