// Package token issues and verifies the stateless bearer tokens that identify
// callers. Tokens are HS512-signed JWTs whose subject is the numeric user id.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind tells access tokens from refresh tokens. It is carried in the typ claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	// ErrInvalid covers bad signatures, malformed input and unsupported
	// algorithms alike, so callers cannot tell them apart.
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token has expired")
)

// Config configures a Service.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock used for iat/exp. Defaults to time.Now.
	Now func() time.Time
}

// Service signs and verifies tokens with a single shared secret.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// Pair is what clients receive after sign-up, sign-in or refresh.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Verified is only produced by Validate, so holding one means the signature
// and expiry have been checked.
type Verified struct {
	userID    int64
	kind      Kind
	issuedAt  time.Time
	expiresAt time.Time
}

func (v Verified) UserID() int64        { return v.userID }
func (v Verified) Kind() Kind           { return v.kind }
func (v Verified) IssuedAt() time.Time  { return v.issuedAt }
func (v Verified) ExpiresAt() time.Time { return v.expiresAt }

type claims struct {
	Kind Kind `json:"typ"`
	jwt.RegisteredClaims
}

// NewService rejects an empty secret and non-positive lifetimes.
func NewService(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("access token lifetime must be positive")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, errors.New("refresh token lifetime must be positive")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// IssueAccessToken signs a short-lived token for authenticated requests.
func (s *Service) IssueAccessToken(userID int64) (string, error) {
	return s.issue(userID, KindAccess, s.accessTTL)
}

// IssueRefreshToken signs a long-lived token that is only accepted by Refresh.
func (s *Service) IssueRefreshToken(userID int64) (string, error) {
	return s.issue(userID, KindRefresh, s.refreshTTL)
}

// IssuePair issues an access and a refresh token for userID.
func (s *Service) IssuePair(userID int64) (Pair, error) {
	access, err := s.IssueAccessToken(userID)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := s.IssueRefreshToken(userID)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Validate checks the signature first and the expiry second; ErrExpired is
// therefore only ever returned for tokens this service actually signed.
func (s *Service) Validate(tokenString string) (Verified, error) {
	var c claims
	_, err := s.parser.ParseWithClaims(strings.TrimSpace(tokenString), &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Verified{}, ErrExpired
		}
		return Verified{}, ErrInvalid
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Verified{}, ErrInvalid
	}

	if c.Kind != KindAccess && c.Kind != KindRefresh {
		return Verified{}, ErrInvalid
	}

	verified := Verified{userID: userID, kind: c.Kind}
	// NumericDate decodes into the local zone.
	if c.IssuedAt != nil {
		verified.issuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		verified.expiresAt = c.ExpiresAt.Time.UTC()
	}

	return verified, nil
}

// ExtractUserID validates the token and returns its subject.
func (s *Service) ExtractUserID(tokenString string) (int64, error) {
	verified, err := s.Validate(tokenString)
	if err != nil {
		return 0, err
	}

	return verified.UserID(), nil
}

func (s *Service) issue(userID int64, kind Kind, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("issue %s token: invalid user id %d", kind, userID)
	}

	now := s.now()
	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	return signed, nil
}
