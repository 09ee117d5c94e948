package social

import "github.com/goliatone/go-errors"

const (
	TextCodeProviderNotFound  = "PROVIDER_NOT_FOUND"
	TextCodeTokenExchangeFail = "UPSTREAM_ERROR"
	TextCodeUserInfoFail      = "UPSTREAM_ERROR"
)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("social provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExchangeFailed is returned when a provider token exchange fails.
var ErrTokenExchangeFailed = errors.New("token exchange failed", errors.CategoryOperation).
	WithTextCode(TextCodeTokenExchangeFail).
	WithCode(502)

// ErrUserInfoFailed is returned when fetching user info fails.
var ErrUserInfoFailed = errors.New("failed to fetch user info", errors.CategoryOperation).
	WithTextCode(TextCodeUserInfoFail).
	WithCode(502)
