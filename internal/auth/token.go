package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// ErrNoSession means the token does not resolve to a live session.
var ErrNoSession = errors.New("no valid session")

// SessionManager mints and resolves signed session tokens.
type SessionManager struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

// NewSessionManager builds a new manager. A nil store disables revocation checks.
func NewSessionManager(secret string, ttl time.Duration, revoked RevocationStore) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Claims describes the token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a session token for user.
func (m *SessionManager) Issue(user *domain.User) (string, *domain.Session, error) {
	issuedAt := m.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		SubjectID: user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(m.ttl),
	}
	claims := &Claims{
		Email: session.Email,
		Name:  session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.SubjectID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Resolve maps a token to its session. Malformed, expired or revoked tokens yield
// ErrNoSession; any other error comes from the revocation store.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := m.parse(token)
	if err != nil {
		return nil, ErrNoSession
	}
	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrNoSession
		}
	}
	return sessionFromClaims(claims), nil
}

// Revoke invalidates a token until it would have expired anyway. Tokens that no longer
// resolve are ignored.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil || m.revoked == nil {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (m *SessionManager) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func sessionFromClaims(c *Claims) *domain.Session {
	s := &domain.Session{
		ID:        c.ID,
		SubjectID: c.Subject,
		Email:     c.Email,
		Name:      c.Name,
	}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}
