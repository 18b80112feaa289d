package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/auth"
	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

type AuthService struct {
	dbStore *store.SQLiteStore
	issuer  *auth.Issuer
}

func NewAuthService(db *store.SQLiteStore, issuer *auth.Issuer) *AuthService {
	return &AuthService{dbStore: db, issuer: issuer}
}

// Register creates a new account and issues its first token. The duplicate
// check runs inside the store transaction, so concurrent registrations with
// the same email cannot both succeed.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*store.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	// addr.Address must round-trip to the input so display-name forms like
	// "Ann <a@x.com>" are rejected rather than stored verbatim.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, "", fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.dbStore.CreateUser(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password produce the same error on purpose.
func (s *AuthService) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.dbStore.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// ChangePassword re-hashes and stores a new password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: current and new password are required", ErrValidation)
	}

	user, err := s.dbStore.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.dbStore.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	log.Printf("Password changed for user %s", userID)
	return nil
}

// GetUser returns the stored user record, or nil when it does not exist.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*store.User, error) {
	return s.dbStore.GetUserByID(ctx, userID)
}
