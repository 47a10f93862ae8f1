// Package token issues and parses the HS256 JWTs used for sessions.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"textok/internal/config"
	"textok/internal/model"
)

const (
	// TemporaryTTL bounds the window an OAuth2 user has to finish joining.
	TemporaryTTL = 5 * time.Minute

	typTemporary = "TEMP"
	leeway       = 60 * time.Second
	minSecretLen = 32
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingRole   = errors.New("token carries no role")
	ErrNotTemporary  = errors.New("token is not a temporary token")
	ErrSecretTooWeak = fmt.Errorf("jwt secret must be at least %d bytes", minSecretLen)
)

// Claims are the registered claims plus the two custom ones we issue.
type Claims struct {
	Role string `json:"role,omitempty"`
	Typ  string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies tokens with a shared secret.
type Provider struct {
	secret     []byte
	accessExp  time.Duration
	refreshExp time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// NewProvider validates the secret length and builds a Provider.
func NewProvider(cfg config.JWTConfig) (*Provider, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, ErrSecretTooWeak
	}
	p := &Provider{
		secret:     []byte(cfg.Secret),
		accessExp:  cfg.AccessExp,
		refreshExp: cfg.RefreshExp,
		now:        time.Now,
	}
	p.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return p.now() }),
	)
	return p, nil
}

// RefreshTTL is how long refresh tokens (and their stored copies) live.
func (p *Provider) RefreshTTL() time.Duration { return p.refreshExp }

// AccessTTL is how long access tokens live.
func (p *Provider) AccessTTL() time.Duration { return p.accessExp }

func (p *Provider) sign(userID int64, ttl time.Duration, role, typ string) (string, error) {
	now := p.now()
	claims := Claims{
		Role: role,
		Typ:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// GenerateAccessToken returns a token carrying the user's role authority.
func (p *Provider) GenerateAccessToken(userID int64, role model.Role) (string, error) {
	return p.sign(userID, p.accessExp, role.Authority(), "")
}

// GenerateRefreshToken returns a token that only identifies the user.
func (p *Provider) GenerateRefreshToken(userID int64) (string, error) {
	return p.sign(userID, p.refreshExp, "", "")
}

// GenerateTemporaryToken returns a short-lived token used to complete an OAuth2 join.
func (p *Provider) GenerateTemporaryToken(userID int64) (string, error) {
	return p.sign(userID, TemporaryTTL, "", typTemporary)
}

func (p *Provider) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := p.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Validate reports whether raw has a valid signature and has not expired.
func (p *Provider) Validate(raw string) bool {
	_, err := p.parse(raw)
	return err == nil
}

func subject(c *Claims) (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// UserID returns the subject of a valid token.
func (p *Provider) UserID(raw string) (int64, error) {
	c, err := p.parse(raw)
	if err != nil {
		return 0, err
	}
	return subject(c)
}

// ParseAccess turns an access token into the request principal.
func (p *Provider) ParseAccess(raw string) (*model.Principal, error) {
	c, err := p.parse(raw)
	if err != nil {
		return nil, err
	}
	if c.Role == "" {
		return nil, ErrMissingRole
	}
	role, ok := model.ParseRole(c.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, c.Role)
	}
	id, err := subject(c)
	if err != nil {
		return nil, err
	}
	return &model.Principal{UserID: id, Role: role}, nil
}

// ParseTemporary returns the user a temporary token was issued for.
func (p *Provider) ParseTemporary(raw string) (int64, error) {
	c, err := p.parse(raw)
	if err != nil {
		return 0, err
	}
	if c.Typ != typTemporary {
		return 0, ErrNotTemporary
	}
	return subject(c)
}
