package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/invoice-service/internal/auth"
	"github.com/spec-kit/invoice-service/internal/domain"
	"github.com/spec-kit/invoice-service/internal/repository"
	"github.com/spec-kit/invoice-service/internal/validation"
)

// ErrInvalidCredentials is the single rejection returned for any sign-in failure the
// caller can fix. It never says whether the email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// fallbackUnknownUserHash is a well-formed cost-12 bcrypt hash used when a fresh dummy
// hash cannot be built, so unknown emails still pay a full comparison.
const fallbackUnknownUserHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// SessionIssuer mints and revokes session tokens.
type SessionIssuer interface {
	Issue(user *domain.User) (string, *domain.Session, error)
	Revoke(ctx context.Context, token string) error
}

// AuthService verifies credentials and opens sessions.
type AuthService struct {
	users    repository.UserRepository
	verifier auth.PasswordVerifier
	sessions SessionIssuer
	logger   *zap.Logger
	hashCost int

	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Verifier auth.PasswordVerifier
	Sessions SessionIssuer
	Logger   *zap.Logger
	// HashCost should match the cost of stored hashes so unknown emails take as long
	// as wrong passwords.
	HashCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cost := deps.HashCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:     deps.UserRepo,
		verifier:  deps.Verifier,
		sessions:  deps.Sessions,
		logger:    logger,
		hashCost:  cost,
		dummyHash: buildUnknownUserHash(cost, logger),
	}
}

// Verify returns the user owning email when password matches. Malformed input,
// unknown emails and wrong passwords all yield ErrInvalidCredentials; store failures
// come back as coded internal errors.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	if !validation.ValidateCredentials(email, password) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, oops.Code("AUTH_LOOKUP_FAILED").
				With("operation", "get user by email").
				Wrap(err)
		}
		// unknown email still pays for a hash comparison
		_, _ = s.verifier.Verify(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.verifier.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("user_id", user.ID).
			Wrap(err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SignIn verifies the credentials and mints a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, session, err := s.sessions.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, oops.Code("SESSION_ISSUE_FAILED").
			With("user_id", user.ID).
			Wrap(err)
	}
	s.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("session_id", session.ID))
	return user, token, session.ExpiresAt, nil
}

// SignOut revokes token. Unknown or expired tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return oops.Code("SESSION_REVOKE_FAILED").Wrap(err)
	}
	return nil
}

// buildUnknownUserHash hashes a random secret at the stored hashes' cost. On failure it
// falls back to a constant hash rather than leaving the unknown-email branch instant.
func buildUnknownUserHash(cost int, logger *zap.Logger) string {
	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		logger.Error("generate dummy secret", zap.Error(err))
		return fallbackUnknownUserHash
	}
	hash, err := auth.HashPassword(hex.EncodeToString(secret), cost)
	if err != nil {
		logger.Error("build dummy hash", zap.Error(err))
		return fallbackUnknownUserHash
	}
	return hash
}
