package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/server/auth"
)

// GuestUsername is the reserved display name of the shared guest identity.
const GuestUsername = "guest"

// guestPassword is the fixed placeholder credential for the shared guest
// account. Intentionally a constant: guest sessions are a low-security
// convenience, not individual identities.
const (
	guestPassword = "guestpassword"
	guestEmail    = "guest@example.com"
)

type Service struct {
	repo                  Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewService(repo Repository, jwtSecret []byte, tokenValidity time.Duration) *Service {
	return &Service{
		repo:                  repo,
		jwtSecret:             jwtSecret,
		tokenValidityDuration: tokenValidity,
	}
}

// Register creates a new account and returns it. Missing fields map to
// common.ErrorValidation, duplicate username/email to common.ErrorConflict.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credential and issues a session token. Unknown user and
// wrong password both map to common.ErrorUnauthenticated; the wrapping
// message differs but the kind does not.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("unknown user: %w", common.ErrorUnauthenticated)
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", fmt.Errorf("wrong password: %w", common.ErrorUnauthenticated)
	}

	if err := s.repo.TouchLastAccess(ctx, user.ID); err != nil {
		return "", common.ErrorInternal
	}

	return s.issueToken(user)
}

// GuestLogin provisions the shared guest identity if needed and issues a
// token for it.
func (s *Service) GuestLogin(ctx context.Context) (string, error) {

	user, err := s.EnsureGuest(ctx)
	if err != nil {
		return "", err
	}

	if err := s.repo.TouchLastAccess(ctx, user.ID); err != nil {
		return "", common.ErrorInternal
	}

	return s.issueToken(user)
}

// EnsureGuest returns the reserved guest identity, creating it on first use.
// Creation is race-safe: a concurrent insert losing to the unique constraint
// on username is treated as "someone else already created it" and resolved
// by re-fetching.
func (s *Service) EnsureGuest(ctx context.Context) (*User, error) {

	user, err := s.repo.GetByUsername(ctx, GuestUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(guestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing guest password: %w", err)
	}

	user, err = s.repo.Create(ctx, &User{
		Username:     GuestUsername,
		Email:        guestEmail,
		PasswordHash: hash,
	})
	if err == nil {
		return user, nil
	}
	if errors.Is(err, common.ErrorConflict) {
		// Lost the race; the row exists now.
		return s.repo.GetByUsername(ctx, GuestUsername)
	}

	return nil, err
}

// TouchLastAccess records liveness for userID. The Auth Gate calls this on
// every authenticated request.
func (s *Service) TouchLastAccess(ctx context.Context, userID int64) error {
	return s.repo.TouchLastAccess(ctx, userID)
}

func (s *Service) issueToken(user *User) (string, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
