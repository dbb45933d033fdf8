package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/astro-auth-api/internal/config"
	"github.com/astro-auth-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. Subject carries the user's email.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HMAC JWTs with a shared secret.
type Provider struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	var method jwt.SigningMethod
	switch cfg.JWTAlgorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512", "":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.JWTAlgorithm)
	}
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = 720 * time.Minute
	}
	return &Provider{secret: []byte(cfg.JWTSecret), method: method, expiry: expiry, now: time.Now}, nil
}

// TTL is how long issued tokens stay valid.
func (p *Provider) TTL() time.Duration { return p.expiry }

// Issue mints a token for the given user. sub is the email, uid the surrogate id.
func (p *Provider) Issue(userID, email string) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.expiry)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(p.method, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry. Failures map to
// domain.ErrTokenExpired or domain.ErrTokenInvalid.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
