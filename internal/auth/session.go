package auth

import (
	"coffeemap-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "dashboard-session"
	SessionTTL = 7 * 24 * time.Hour

	revokedPrefix = "revoked-session:"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrRevoked         = errors.New("session revoked")
)

// Manager checks the dashboard password and issues signed session tokens.
type Manager struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	revoked      ports.KeyValueStore
	now          func() time.Time
}

// NewManager hashes adminPassword once. An empty secret gets a random one,
// so sessions do not survive a restart.
func NewManager(adminPassword, secret string, revoked ports.KeyValueStore) (*Manager, error) {
	if adminPassword == "" {
		return nil, errors.New("auth: admin password is empty")
	}
	if revoked == nil {
		return nil, errors.New("auth: revocation store is nil")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash admin password: %w", err)
	}

	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}

	return &Manager{
		passwordHash: hash,
		secret:       []byte(secret),
		ttl:          SessionTTL,
		revoked:      revoked,
		now:          time.Now,
	}, nil
}

// Login verifies password and returns a new session token and its expiry.
func (m *Manager) Login(password string) (string, time.Time, error) {
	if bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	now := m.now()
	expires := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   "admin",
		IssuedAt:  now.Unix(),
		ExpiresAt: expires.Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify returns the claims of a valid, unrevoked token.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*jwt.StandardClaims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}

	_, err = m.revoked.Get(ctx, revokedPrefix+claims.Id)
	switch {
	case err == nil:
		return nil, ErrRevoked
	case errors.Is(err, ports.ErrKeyNotFound):
		return claims, nil
	default:
		return nil, fmt.Errorf("auth: check revocation: %w", err)
	}
}

// Revoke blacklists the token's id until it would have expired anyway.
// Invalid tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil
	}

	ttl := time.Unix(claims.ExpiresAt, 0).Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.revoked.Set(ctx, revokedPrefix+claims.Id, "1", ttl); err != nil {
		return fmt.Errorf("auth: revoke session: %w", err)
	}
	return nil
}

func (m *Manager) parse(tokenString string) (*jwt.StandardClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Id == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
