package auth

import (
	"coffeemap-service/internal/adapters/kv"
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore keeps the TTL of every Set.
type recordingStore struct {
	*kv.MemoryStore
	ttls map[string]time.Duration
}

func (s *recordingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.ttls[key] = ttl
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("kopi-susu", "test-secret", kv.NewMemoryStore())
	require.NoError(t, err)
	return m
}

func TestLoginAndVerify(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _, err := m.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	token, expires, err := m.Login("kopi-susu")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), expires, time.Minute)

	claims, err := m.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.NotEmpty(t, claims.Id)
}

func TestVerifyRejectsTampering(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Login("kopi-susu")
	require.NoError(t, err)

	other, err := NewManager("kopi-susu", "another-secret", kv.NewMemoryStore())
	require.NoError(t, err)
	_, err = other.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Verify(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{Id: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(ctx, none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, _, err := m.Login("kopi-susu")
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Login("kopi-susu")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, token))

	_, err = m.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrRevoked)

	// Other sessions stay valid.
	fresh, _, err := m.Login("kopi-susu")
	require.NoError(t, err)
	_, err = m.Verify(ctx, fresh)
	assert.NoError(t, err)

	assert.NoError(t, m.Revoke(ctx, "garbage"))
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager("", "s", kv.NewMemoryStore())
	assert.Error(t, err)
	_, err = NewManager("p", "s", nil)
	assert.Error(t, err)

	m, err := NewManager("p", "", kv.NewMemoryStore())
	require.NoError(t, err)
	assert.NotEmpty(t, m.secret)
}

func TestRevokeUsesManagerClock(t *testing.T) {
	store := &recordingStore{MemoryStore: kv.NewMemoryStore(), ttls: map[string]time.Duration{}}
	m, err := NewManager("kopi-susu", "test-secret", store)
	require.NoError(t, err)
	ctx := context.Background()

	issued := time.Now().Add(-6 * 24 * time.Hour).Truncate(time.Second)
	m.now = func() time.Time { return issued }

	token, _, err := m.Login("kopi-susu")
	require.NoError(t, err)
	claims, err := m.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	assert.Equal(t, SessionTTL, store.ttls[revokedPrefix+claims.Id])

	// Past its expiry on the manager's clock there is nothing to revoke.
	later, _, err := m.Login("kopi-susu")
	require.NoError(t, err)
	m.now = func() time.Time { return issued.Add(SessionTTL + time.Hour) }
	require.NoError(t, m.Revoke(ctx, later))
	assert.Len(t, store.ttls, 1)
}
