package authgate_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		code     int
		textCode string
		message  string
	}{
		{"identity not found", authgate.ErrIdentityNotFound, goerrors.CategoryNotFound, goerrors.CodeNotFound, "NOT_FOUND", "Invalid email"},
		{"user conflict", authgate.ErrUserConflict, goerrors.CategoryConflict, goerrors.CodeConflict, "CONFLICT", "User already exists"},
		{"bad credentials", authgate.ErrMismatchedHashAndPassword, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "BAD_CREDENTIALS", "the credentials provided are invalid"},
		{"invalid verify token", authgate.ErrInvalidVerifyToken, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "INVALID_TOKEN", "Invalid Link"},
		{"expired verify token", authgate.ErrExpiredVerifyToken, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "EXPIRED_TOKEN", "Link is Expired"},
		{"invalid reset link", authgate.ErrInvalidResetLink, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "INVALID_LINK", "Invalid Link"},
		{"expired reset link", authgate.ErrExpiredResetLink, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "EXPIRED_LINK", "Link is Expired"},
		{"session missing", authgate.ErrUnableToFindSession, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "MISSING", "unable to find session"},
		{"session malformed", authgate.ErrTokenMalformed, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "MALFORMED", "unable to decode session"},
		{"session expired", authgate.ErrTokenExpired, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "EXPIRED", "session token is expired"},
		{"bad signature", authgate.ErrTokenSignature, goerrors.CategoryAuth, goerrors.CodeUnauthorized, "INVALID_SIGNATURE", "session token signature is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
}

func TestVerifyAndResetLinksShareMessages(t *testing.T) {
	// The two flows present identical messages to the client; only the
	// text code tells them apart.
	assert.Equal(t, authgate.ErrInvalidVerifyToken.Message, authgate.ErrInvalidResetLink.Message)
	assert.Equal(t, authgate.ErrExpiredVerifyToken.Message, authgate.ErrExpiredResetLink.Message)
	assert.NotEqual(t, authgate.ErrInvalidVerifyToken.TextCode, authgate.ErrInvalidResetLink.TextCode)
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, authgate.IsTokenExpiredError(authgate.ErrTokenExpired))
	assert.False(t, authgate.IsTokenExpiredError(authgate.ErrTokenMalformed))
	assert.False(t, authgate.IsTokenExpiredError(nil))

	wrapped := goerrors.Wrap(authgate.ErrTokenExpired, goerrors.CategoryAuth, "validation failed")
	assert.True(t, authgate.IsTokenExpiredError(wrapped))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, authgate.IsMalformedError(authgate.ErrTokenMalformed))
	assert.True(t, authgate.IsMalformedError(goerrors.New("token is malformed: bad segment", goerrors.CategoryAuth)))
	assert.False(t, authgate.IsMalformedError(authgate.ErrTokenExpired))
	assert.False(t, authgate.IsMalformedError(nil))
}
