package social

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lunarhq/authgate"
)

// SocialAuthenticator orchestrates social login flows.
type SocialAuthenticator struct {
	providers       map[string]SocialProvider
	store           authgate.UserStore
	tokenService    authgate.TokenService
	linkingStrategy LinkingStrategy
	logger          authgate.Logger
}

// SocialAuthOption configures the social authenticator.
type SocialAuthOption func(*SocialAuthenticator)

// AuthResult is the outcome of a completed social login.
type AuthResult struct {
	Token     string
	User      *authgate.User
	IsNewUser bool
	Profile   *SocialProfile
}

// NewSocialAuthenticator creates a new social authenticator.
func NewSocialAuthenticator(
	store authgate.UserStore,
	tokenService authgate.TokenService,
	opts ...SocialAuthOption,
) *SocialAuthenticator {
	sa := &SocialAuthenticator{
		providers:    make(map[string]SocialProvider),
		store:        store,
		tokenService: tokenService,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sa)
		}
	}

	if sa.linkingStrategy == nil {
		sa.linkingStrategy = &DefaultLinkingStrategy{}
	}

	if sa.logger == nil {
		sa.logger = authgate.DefaultLogger
	}

	return sa
}

// WithProvider registers a social provider.
func WithProvider(provider SocialProvider) SocialAuthOption {
	return func(sa *SocialAuthenticator) {
		if provider == nil {
			return
		}
		sa.providers[provider.Name()] = provider
	}
}

// WithLinkingStrategy sets a custom user linking strategy.
func WithLinkingStrategy(ls LinkingStrategy) SocialAuthOption {
	return func(sa *SocialAuthenticator) {
		if ls != nil {
			sa.linkingStrategy = ls
		}
	}
}

// WithLogger sets the authenticator logger.
func WithLogger(logger authgate.Logger) SocialAuthOption {
	return func(sa *SocialAuthenticator) {
		if logger != nil {
			sa.logger = logger
		}
	}
}

// Provider returns the registered provider by name.
func (sa *SocialAuthenticator) Provider(name string) (SocialProvider, error) {
	provider, ok := sa.providers[name]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// BeginAuth returns the provider's authorization URL to redirect the
// user to.
func (sa *SocialAuthenticator) BeginAuth(providerName, state string) (string, error) {
	provider, err := sa.Provider(providerName)
	if err != nil {
		return "", err
	}
	return provider.AuthCodeURL(state), nil
}

// CompleteAuth exchanges the authorization code, resolves the profile to
// a local user, and mints a session token for it.
func (sa *SocialAuthenticator) CompleteAuth(ctx context.Context, providerName, code string) (*AuthResult, error) {
	provider, err := sa.Provider(providerName)
	if err != nil {
		return nil, err
	}

	if code == "" {
		return nil, goerrors.New("authorization code is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("VALIDATION")
	}

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		sa.logger.Error("token exchange failed: provider=%s error=%v", providerName, err)
		return nil, wrapProviderError(ErrTokenExchangeFailed, providerName, "exchange", err)
	}

	profile, err := provider.UserInfo(ctx, token)
	if err != nil {
		sa.logger.Error("user info fetch failed: provider=%s error=%v", providerName, err)
		return nil, wrapProviderError(ErrUserInfoFailed, providerName, "userinfo", err)
	}

	result, err := sa.linkingStrategy.ResolveUser(ctx, LinkingContext{
		Profile: profile,
		Store:   sa.store,
	})
	if err != nil {
		return nil, err
	}

	sessionToken, err := sa.tokenService.Generate(authgate.NewIdentityFromUser(result.User))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate session token").
			WithTextCode("INTERNAL")
	}

	sa.logger.Info("social login completed: provider=%s email=%s new_user=%t",
		providerName, result.User.Email, result.IsNewUser)

	return &AuthResult{
		Token:     sessionToken,
		User:      result.User,
		IsNewUser: result.IsNewUser,
		Profile:   profile,
	}, nil
}
