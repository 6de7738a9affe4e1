package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T, secret string, clock *fakeClock) *Service {
	t.Helper()

	svc, err := NewService(Config{
		Secret:     secret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewService(Config{AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.Error(t, err)

	_, err = NewService(Config{Secret: "s", AccessTTL: 0, RefreshTTL: time.Hour})
	require.Error(t, err)

	_, err = NewService(Config{Secret: "s", AccessTTL: time.Minute, RefreshTTL: -time.Hour})
	require.Error(t, err)
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, "round-trip-secret", clock)

	for _, userID := range []int64{1, 2, 42, 1 << 40} {
		access, err := svc.IssueAccessToken(userID)
		require.NoError(t, err)

		verified, err := svc.Validate(access)
		require.NoError(t, err)
		assert.Equal(t, userID, verified.UserID())
		assert.Equal(t, KindAccess, verified.Kind())
		assert.Equal(t, clock.now, verified.IssuedAt())
		assert.Equal(t, clock.now.Add(15*time.Minute), verified.ExpiresAt())
		assert.Equal(t, time.UTC, verified.IssuedAt().Location())
		assert.Equal(t, time.UTC, verified.ExpiresAt().Location())

		extracted, err := svc.ExtractUserID(access)
		require.NoError(t, err)
		assert.Equal(t, userID, extracted)
	}
}

func TestRefreshTokenUsesLongerLifetime(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, "refresh-secret", clock)

	refresh, err := svc.IssueRefreshToken(7)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	verified, err := svc.Validate(refresh)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, verified.Kind())
	assert.Equal(t, int64(7), verified.UserID())
}

func TestExpiryBoundary(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, "expiry-secret", clock)

	access, err := svc.IssueAccessToken(5)
	require.NoError(t, err)

	clock.Advance(15*time.Minute - time.Second)
	_, err = svc.Validate(access)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = svc.Validate(access)
	require.ErrorIs(t, err, ErrExpired)

	_, err = svc.ExtractUserID(access)
	require.ErrorIs(t, err, ErrExpired)
}

func TestTokenExpiredOneSecondAgo(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	svc, err := NewService(Config{Secret: "s", AccessTTL: time.Second, RefreshTTL: time.Hour, Now: clock.Now})
	require.NoError(t, err)

	access, err := svc.IssueAccessToken(3)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = svc.Validate(access)
	require.ErrorIs(t, err, ErrExpired)
}

func TestForeignSecretIsInvalid(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ours := newTestService(t, "our-secret", clock)
	theirs := newTestService(t, "their-secret", clock)

	for _, userID := range []int64{1, 99, 12345} {
		foreign, err := theirs.IssueAccessToken(userID)
		require.NoError(t, err)

		_, err = ours.Validate(foreign)
		require.ErrorIs(t, err, ErrInvalid)
	}

	// An expired foreign token must still look invalid, not expired.
	foreign, err := theirs.IssueAccessToken(1)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = ours.Validate(foreign)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestMalformedAndUnsupportedTokens(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, "shape-secret", clock)

	sign := func(method jwt.SigningMethod, c jwt.Claims) string {
		signed, err := jwt.NewWithClaims(method, c).SignedString([]byte("shape-secret"))
		require.NoError(t, err)
		return signed
	}

	valid := jwt.RegisteredClaims{
		Subject:   "8",
		IssuedAt:  jwt.NewNumericDate(clock.now),
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not-a-token",
		"three segments":  "a.b.c",
		"hs256 algorithm": sign(jwt.SigningMethodHS256, claims{Kind: KindAccess, RegisteredClaims: valid}),
		"missing expiry": sign(jwt.SigningMethodHS512, claims{Kind: KindAccess, RegisteredClaims: jwt.RegisteredClaims{
			Subject: "8",
		}}),
		"non numeric subject": sign(jwt.SigningMethodHS512, claims{Kind: KindAccess, RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		}}),
		"unknown kind": sign(jwt.SigningMethodHS512, claims{Kind: "session", RegisteredClaims: valid}),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(raw)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestIssueIsDeterministicPerClock(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, "determinism-secret", clock)

	first, err := svc.IssueAccessToken(11)
	require.NoError(t, err)
	second, err := svc.IssueAccessToken(11)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	clock.Advance(time.Second)
	third, err := svc.IssueAccessToken(11)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestIssuePair(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, "pair-secret", clock)

	pair, err := svc.IssuePair(21)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	access, err := svc.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, KindAccess, access.Kind())

	refresh, err := svc.Validate(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, refresh.Kind())

	_, err = svc.IssuePair(0)
	require.Error(t, err)
}
