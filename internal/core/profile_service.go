package core

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

type ProfileService struct {
	dbStore *store.SQLiteStore
}

func NewProfileService(db *store.SQLiteStore) *ProfileService {
	return &ProfileService{dbStore: db}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*store.User, error) {
	user, err := s.dbStore.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID, name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	// Same round-trip rule as registration: display-name forms are rejected.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	err := s.dbStore.UpdateProfile(ctx, userID, name, email)
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// SetProfilePicture persists the relative path of an already-stored upload
// on the user record.
func (s *ProfileService) SetProfilePicture(ctx context.Context, userID, path string) error {
	err := s.dbStore.UpdateProfilePicture(ctx, userID, path)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	return nil
}
