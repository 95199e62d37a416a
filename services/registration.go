package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/pkg/crypto"
	"github.com/google/uuid"
)

// maxPasswordLength is bcrypt's input limit, applied whichever hasher is configured
const maxPasswordLength = crypto.MaxBcryptPasswordLength

type RegistrationService struct {
	identities     core.IdentityStore
	passwordHasher crypto.PasswordHandler
	logger         *slog.Logger
	now            func() time.Time
}

// Ensure RegistrationService implements Registrar
var _ core.Registrar = (*RegistrationService)(nil)

func NewRegistrationService(identities core.IdentityStore, passwordHasher crypto.PasswordHandler, logger *slog.Logger) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		identities:     identities,
		passwordHasher: passwordHasher,
		logger:         logger,
		now:            time.Now,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Lookup and insert both go through it, so "A@B.com " and "a@b.com" are the
// same identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks a request without touching storage
func ValidateRegistration(req core.RegistrationRequest) error {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return core.ErrEmailRequired
	}
	if req.Password == "" {
		return core.ErrPasswordRequired
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return core.ErrInvalidEmail
	}
	if len(req.Password) > maxPasswordLength {
		return core.ErrPasswordTooLong
	}
	if req.Password != req.ConfirmPassword {
		return core.ErrPasswordMismatch
	}
	return nil
}

// Register creates a new identity from a registration form submission.
//
// The returned error always matches one of ErrInvalidInput, ErrPasswordMismatch,
// ErrDuplicateIdentity, ErrStorageUnavailable or ErrHashingFailed.
func (s *RegistrationService) Register(ctx context.Context, req core.RegistrationRequest) (*core.Identity, error) {
	// Step 1: Validate input and password confirmation
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}
	email := NormalizeEmail(req.Email)

	// Step 2: Check if the email is already registered
	existing, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "identity lookup failed", "error", err)
		return nil, storageError("failed to check existing identity", err)
	}
	if existing != nil {
		s.logger.InfoContext(ctx, "registration rejected: email already registered", "email", email)
		return nil, core.ErrDuplicateIdentity
	}

	// Step 3: Hash the password
	hash, err := s.passwordHasher.Hash(req.Password)
	if err != nil {
		s.logger.ErrorContext(ctx, "password hashing failed", "error", err)
		return nil, fmt.Errorf("%w: %v", core.ErrHashingFailed, err)
	}

	// Step 4: Persist the identity; the store's unique constraint has the last word
	identity := &core.Identity{
		ID:            uuid.NewString(),
		Email:         email,
		PasswordHash:  hash,
		HashAlgorithm: s.passwordHasher.Algorithm(),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.identities.Insert(ctx, identity); err != nil {
		if errors.Is(err, core.ErrDuplicateIdentity) {
			s.logger.InfoContext(ctx, "registration lost insert race", "email", email)
			return nil, core.ErrDuplicateIdentity
		}
		s.logger.ErrorContext(ctx, "identity insert failed", "error", err)
		return nil, storageError("failed to create identity", err)
	}

	s.logger.InfoContext(ctx, "identity registered", "identity_id", identity.ID, "email", identity.Email)

	return identity, nil
}

// storageError maps any store failure to ErrStorageUnavailable while keeping
// the cause for logs.
func storageError(msg string, err error) error {
	if errors.Is(err, core.ErrStorageUnavailable) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %v", msg, core.ErrStorageUnavailable, err)
}
