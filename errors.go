package authgate

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by flow errors. The HTTP layer maps them to status
// codes; clients can branch on them without parsing messages.
const (
	TextCodeValidation       = "VALIDATION"
	TextCodeNotFound         = "NOT_FOUND"
	TextCodeConflict         = "CONFLICT"
	TextCodeInvalidCreds     = "BAD_CREDENTIALS"
	TextCodeInvalidToken     = "INVALID_TOKEN"
	TextCodeExpiredToken     = "EXPIRED_TOKEN"
	TextCodeInvalidLink      = "INVALID_LINK"
	TextCodeExpiredLink      = "EXPIRED_LINK"
	TextCodeUpstreamError    = "UPSTREAM_ERROR"
	TextCodeInternal         = "INTERNAL"
	TextCodeSessionNotFound  = "MISSING"
	TextCodeSessionMalformed = "MALFORMED"
	TextCodeSessionExpired   = "EXPIRED"
	TextCodeBadSignature     = "INVALID_SIGNATURE"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("Invalid email", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode(TextCodeNotFound)

// ErrUserConflict is returned when registration hits an existing email
var ErrUserConflict = goerrors.New("User already exists", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict).
	WithTextCode(TextCodeConflict)

// ErrMismatchedHashAndPassword is returned when the password compare fails
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrInvalidVerifyToken is returned when a verification token does not
// match the pending token, or no verification is pending
var ErrInvalidVerifyToken = goerrors.New("Invalid Link", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidToken)

// ErrExpiredVerifyToken is returned when a verification token matched but
// its expiry has passed
var ErrExpiredVerifyToken = goerrors.New("Link is Expired", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeExpiredToken)

// ErrInvalidResetLink mirrors ErrInvalidVerifyToken for the reset flow
var ErrInvalidResetLink = goerrors.New("Invalid Link", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidLink)

// ErrExpiredResetLink mirrors ErrExpiredVerifyToken for the reset flow
var ErrExpiredResetLink = goerrors.New("Link is Expired", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeExpiredLink)

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeSessionNotFound)

// ErrTokenMalformed is returned for session tokens that fail to parse
var ErrTokenMalformed = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeSessionMalformed)

// ErrTokenExpired is returned for session tokens past their expiry
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeSessionExpired)

// ErrTokenSignature is returned for session tokens signed with a different key
var ErrTokenSignature = goerrors.New("session token signature is invalid", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeBadSignature)

// ErrUnableToDecodeSession unable to build a session from validated claims
var ErrUnableToDecodeSession = goerrors.New("unable to decode session claims", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeSessionMalformed)

// ErrNoEmptyString password input must not be empty
var ErrNoEmptyString = goerrors.New("password should not be an empty string", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
