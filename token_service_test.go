package authgate_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIdentity struct {
	id    string
	email string
	name  string
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) Name() string  { return i.name }

func newTestTokenService() authgate.TokenService {
	return authgate.NewTokenService([]byte("test-signing-key"), 0, "authgate", testLogger{})
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService()
	identity := testIdentity{id: "user-123", email: "pat@example.com", name: "Pat Example"}

	token, err := ts.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject())
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "pat@example.com", claims.Email())
	assert.Equal(t, "Pat Example", claims.Name())

	remaining := time.Until(claims.Expires())
	assert.Greater(t, remaining, authgate.SessionTokenTTL-time.Minute)
	assert.LessOrEqual(t, remaining, authgate.SessionTokenTTL)
}

func TestTokenServiceValidateIsStable(t *testing.T) {
	ts := newTestTokenService()

	token, err := ts.Generate(testIdentity{id: "user-123"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		claims, err := ts.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject())
	}
}

func TestTokenServiceExpiry(t *testing.T) {
	ts := newTestTokenService()
	identity := testIdentity{id: "user-123", email: "pat@example.com"}

	t.Run("valid six days after issue", func(t *testing.T) {
		issuedAt := time.Now().Add(-6 * 24 * time.Hour)
		token, _, err := authgate.MintSessionToken(ts, identity, issuedAt)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject())
	})

	t.Run("rejected eight days after issue", func(t *testing.T) {
		issuedAt := time.Now().Add(-8 * 24 * time.Hour)
		token, _, err := authgate.MintSessionToken(ts, identity, issuedAt)
		require.NoError(t, err)

		_, err = ts.Validate(token)
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeSessionExpired, textCodeOf(err))
		assert.True(t, authgate.IsTokenExpiredError(err))
	})
}

func TestTokenServiceValidateFailures(t *testing.T) {
	ts := newTestTokenService()

	t.Run("garbage input", func(t *testing.T) {
		_, err := ts.Validate("definitely.not.ajwt")
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeSessionMalformed, textCodeOf(err))
		assert.True(t, authgate.IsMalformedError(err))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := authgate.NewTokenService([]byte("different-key"), 0, "authgate", testLogger{})
		token, err := other.Generate(testIdentity{id: "user-123"})
		require.NoError(t, err)

		_, err = ts.Validate(token)
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeBadSignature, textCodeOf(err))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := authgate.NewTokenService([]byte("test-signing-key"), 0, "someone-else", testLogger{})
		token, err := other.Generate(testIdentity{id: "user-123"})
		require.NoError(t, err)

		_, err = ts.Validate(token)
		require.Error(t, err)
	})
}

func TestSignClaims(t *testing.T) {
	ts := newTestTokenService()

	now := time.Now()
	claims := &authgate.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "authgate",
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:       "user-123",
		UserEmail: "pat@example.com",
	}

	token, err := ts.SignClaims(claims)
	require.NoError(t, err)

	parsed, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", parsed.Subject())
	assert.Equal(t, "pat@example.com", parsed.Email())
	assert.WithinDuration(t, now.Add(time.Hour), parsed.Expires(), time.Second)
}
