// Package tokens issues and verifies signed bearer tokens carrying a user id
// and role.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrazmi/taskforge/sdk/environment"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Options is the exportable token configuration.
type Options struct {
	SigningKey string        `env:"JWT_SIGNING_KEY" required:"true"`
	Lifetime   time.Duration `env:"JWT_LIFETIME" default:"24h"`
	Issuer     string        `env:"JWT_ISSUER" default:"taskforge"`
}

// Claims is the token payload. Subject holds the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c Claims) UserID() string {
	return c.Subject
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	key      []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// Option adjusts an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// New builds an Issuer from options.
func New(cfg Options, opts ...Option) (*Issuer, error) {
	if len(cfg.SigningKey) < 16 {
		return nil, errors.New("signing key must be at least 16 bytes")
	}
	if cfg.Lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", cfg.Lifetime)
	}

	i := &Issuer{
		key:      []byte(cfg.SigningKey),
		lifetime: cfg.Lifetime,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// NewFromEnv reads Options from PREFIX_JWT_* variables.
func NewFromEnv(prefix string, opts ...Option) (*Issuer, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing token config: %w", err)
	}
	return New(cfg, opts...)
}

// Lifetime reports how long issued tokens stay valid.
func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

// Issue signs a token for the given user.
func (i *Issuer) Issue(userID, role string) (string, error) {
	now := i.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token.
func (i *Issuer) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
