package social

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/lunarhq/authgate"
)

// LinkingStrategy determines how social profiles are linked to users.
type LinkingStrategy interface {
	ResolveUser(ctx context.Context, lc LinkingContext) (*LinkingResult, error)
}

// LinkingContext provides context for user resolution.
type LinkingContext struct {
	Profile *SocialProfile
	Store   authgate.UserStore
}

// LinkingResult contains the resolved user and metadata.
type LinkingResult struct {
	User      *authgate.User
	IsNewUser bool
}

// DefaultLinkingStrategy matches by email: an existing account is reused
// as-is with no field sync, an unknown email gets a pre-verified account
// with no password. Either way the caller ends up with exactly one user
// per email, so repeated logins are idempotent.
type DefaultLinkingStrategy struct {
	OnUserCreated func(ctx context.Context, user *authgate.User, profile *SocialProfile) error
}

// ResolveUser implements LinkingStrategy.
func (s *DefaultLinkingStrategy) ResolveUser(ctx context.Context, lc LinkingContext) (*LinkingResult, error) {
	if lc.Profile == nil || lc.Profile.Email == "" {
		return nil, ErrUserInfoFailed
	}
	if lc.Store == nil {
		return nil, goerrors.New("linking requires a user store", goerrors.CategoryInternal)
	}

	profile := lc.Profile

	existing, err := lc.Store.GetByEmail(ctx, profile.Email)
	if err == nil && existing != nil {
		return &LinkingResult{User: existing, IsNewUser: false}, nil
	}
	if err != nil && !goerrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	newUser := s.createUserFromProfile(profile)

	created, err := lc.Store.Register(ctx, newUser)
	if err != nil {
		// A concurrent callback for the same profile may have won the
		// insert; fall back to the record it created.
		if goerrors.Is(err, authgate.ErrUserConflict) {
			if user, getErr := lc.Store.GetByEmail(ctx, profile.Email); getErr == nil {
				return &LinkingResult{User: user, IsNewUser: false}, nil
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.OnUserCreated != nil {
		if err := s.OnUserCreated(ctx, created, profile); err != nil {
			return nil, err
		}
	}

	return &LinkingResult{User: created, IsNewUser: true}, nil
}

func (s *DefaultLinkingStrategy) createUserFromProfile(profile *SocialProfile) *authgate.User {
	name := profile.Name
	if name == "" && profile.FirstName != "" {
		name = profile.FirstName
		if profile.LastName != "" {
			name = name + " " + profile.LastName
		}
	}
	if name == "" {
		name = profile.Email
	}

	// The provider already verified the email; the account starts
	// verified and carries no local password.
	return &authgate.User{
		ID:         uuid.New(),
		Name:       name,
		Email:      profile.Email,
		IsVerified: true,
	}
}
