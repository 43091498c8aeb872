package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rollcall/internal/domain"
)

// ProfileService manages identity profiles. A profile's role moves from
// unresolved to exactly one concrete role and is write-once after that.
type ProfileService struct {
	profiles domain.ProfileRepository
	audit    domain.AuditRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles domain.ProfileRepository, audit domain.AuditRepository) *ProfileService {
	return &ProfileService{profiles: profiles, audit: audit}
}

// Get returns the profile for an identity, or NotFoundError.
func (s *ProfileService) Get(ctx context.Context, identityID string) (*domain.IdentityProfile, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, domain.ErrValidation("identity_id is required")
	}
	return s.profiles.Get(ctx, identityID)
}

// Ensure creates an unresolved profile for a newly seen identity. Existing
// profiles are returned unchanged. Used when the identity provider reports a
// sign-in for an identity with no stored profile.
func (s *ProfileService) Ensure(ctx context.Context, identityID, email string) (*domain.IdentityProfile, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, domain.ErrValidation("identity_id is required")
	}

	existing, err := s.profiles.Get(ctx, identityID)
	if err == nil {
		return existing, nil
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	stored, err := s.profiles.Put(ctx, &domain.IdentityProfile{
		IdentityID: identityID,
		Email:      email,
		Role:       domain.RoleUnresolved,
	})
	if err != nil {
		// A concurrent registration resolved the role between the read
		// and the write; that profile wins.
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return s.profiles.Get(ctx, identityID)
		}
		return nil, err
	}
	return stored, nil
}

// Register upserts a profile with a concrete role. Empty or unresolved
// roles are rejected. Once a profile holds a concrete role, registering a
// different role is a conflict; re-registering the same role refreshes the
// stored email.
func (s *ProfileService) Register(ctx context.Context, identityID, email, role string) (*domain.IdentityProfile, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, domain.ErrValidation("identity_id is required")
	}

	selected, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	existing, err := s.profiles.Get(ctx, identityID)
	switch {
	case err == nil:
		if existing.Role.Concrete() && existing.Role != selected {
			return nil, domain.ErrConflict(
				"role for %s is already %s and cannot change", identityID, existing.Role)
		}
		if email == "" {
			email = existing.Email
		}
	default:
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	stored, err := s.profiles.Put(ctx, &domain.IdentityProfile{
		IdentityID: identityID,
		Email:      email,
		Role:       selected,
	})
	if err != nil {
		return nil, err
	}

	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		IdentityID: identityID,
		Action:     fmt.Sprintf("REGISTER_PROFILE(role=%s)", selected),
		Status:     "ALLOWED",
	})

	return stored, nil
}
