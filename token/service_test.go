package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-identity-gateway/token"
)

const secretStr = "test-secret-key"

// testClock is a controllable clock for deterministic expiry tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, options ...token.ServiceOption) (*token.Service, *testClock) {
	t.Helper()

	signer, err := token.NewSigner("HS256", secretStr)
	require.NoError(t, err)

	clock := &testClock{now: time.Unix(1700000000, 0)}
	options = append([]token.ServiceOption{token.WithNowFunc(clock.Now)}, options...)
	return token.New(signer, options...), clock
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	for _, kind := range []token.Kind{token.KindAccess, token.KindRefresh} {
		signed, err := svc.Issue("john.doe@example.com", kind, time.Hour)
		require.NoError(t, err)

		claims, err := svc.Verify(signed, kind)
		require.NoError(t, err)
		require.Equal(t, "john.doe@example.com", claims.Subject)
		require.Equal(t, kind, claims.Kind)
	}
}

func TestVerifyKindMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	signed, err := svc.Issue("john.doe@example.com", token.KindAccess, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(signed, token.KindRefresh)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc, clock := newTestService(t)

	signed, err := svc.Issue("john.doe@example.com", token.KindAccess, time.Minute)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	_, err = svc.Verify(signed, token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc, _ := newTestService(t)

	signed, err := svc.Issue("john.doe@example.com", token.KindAccess, time.Hour)
	require.NoError(t, err)

	// Flip one byte of the signature segment.
	tampered := []byte(signed)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = svc.Verify(string(tampered), token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc, _ := newTestService(t)

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := svc.Verify(raw, token.KindAccess)
		require.ErrorIs(t, err, token.ErrInvalidToken, "raw=%q", raw)
	}
}

func TestIssueDefaultTTLPerKind(t *testing.T) {
	svc, clock := newTestService(t, token.WithTokenExpiry(30*time.Minute, 7*24*time.Hour))

	access, err := svc.Issue("john.doe@example.com", token.KindAccess, 0)
	require.NoError(t, err)
	refresh, err := svc.Issue("john.doe@example.com", token.KindRefresh, 0)
	require.NoError(t, err)

	accessClaims, err := svc.Verify(access, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(30*time.Minute).Unix(), accessClaims.ExpiresAt.Unix())

	refreshClaims, err := svc.Verify(refresh, token.KindRefresh)
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(7*24*time.Hour).Unix(), refreshClaims.ExpiresAt.Unix())
}

func TestIssueRejectsEmptySubjectAndUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Issue("", token.KindAccess, time.Hour)
	require.Error(t, err)

	_, err = svc.Issue("john.doe@example.com", token.Kind("session"), time.Hour)
	require.Error(t, err)
}

func TestIssuePairSharesSubject(t *testing.T) {
	svc, _ := newTestService(t)

	access, refresh, err := svc.IssuePair("john.doe@example.com")
	require.NoError(t, err)

	accessClaims, err := svc.Verify(access, token.KindAccess)
	require.NoError(t, err)
	refreshClaims, err := svc.Verify(refresh, token.KindRefresh)
	require.NoError(t, err)

	require.Equal(t, accessClaims.Subject, refreshClaims.Subject)
}

func TestVerifyRejectsTokenFromDifferentSecret(t *testing.T) {
	svc, _ := newTestService(t)

	otherSigner, err := token.NewSigner("HS256", "a-different-secret")
	require.NoError(t, err)
	other := token.New(otherSigner)

	signed, err := other.Issue("john.doe@example.com", token.KindAccess, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(signed, token.KindAccess)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestNewSignerUnsupportedAlgorithm(t *testing.T) {
	_, err := token.NewSigner("RS256", secretStr)
	require.Error(t, err)

	_, err = token.NewSigner("none", secretStr)
	require.Error(t, err)
}
