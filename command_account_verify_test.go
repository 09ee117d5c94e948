package authgate_test

import (
	"context"
	"testing"
	"time"

	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPendingUser(store *memStore, email, token string, expiresAt time.Time) *authgate.User {
	return store.seed(&authgate.User{
		Name:                 "Pat Example",
		Email:                email,
		PasswordHash:         "$2a$10$abcdefghijklmnopqrstuv",
		IsVerified:           false,
		VerifyToken:          token,
		VerifyTokenExpiresAt: &expiresAt,
	})
}

func newVerifyHandler(store *memStore) *authgate.AccountVerificationHandler {
	tokens := authgate.NewTokenService([]byte("test-signing-key"), 0, "authgate", testLogger{})
	return authgate.NewAccountVerificationHandler(store, tokens).WithLogger(testLogger{})
}

func TestAccountVerificationHandler(t *testing.T) {
	t.Run("valid token verifies and signs in", func(t *testing.T) {
		store := newMemStore()
		token := authgate.NewOpaqueToken()
		seedPendingUser(store, "pat@example.com", token, time.Now().Add(10*time.Minute))

		handler := newVerifyHandler(store)

		var res *authgate.AccountVerificationResponse
		err := handler.Execute(context.Background(), authgate.AccountVerificationMessage{
			Token: token,
			Email: "pat@example.com",
			OnResponse: func(resp *authgate.AccountVerificationResponse) {
				res = resp
			},
		})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.NotEmpty(t, res.SessionToken)
		require.NotNil(t, res.User)
		assert.True(t, res.User.IsVerified)
		assert.False(t, res.User.HasPendingVerification())

		stored := store.get("pat@example.com")
		assert.True(t, stored.IsVerified)
		assert.Empty(t, stored.VerifyToken)
		assert.Nil(t, stored.VerifyTokenExpiresAt)
	})

	t.Run("mismatched token is invalid", func(t *testing.T) {
		store := newMemStore()
		seedPendingUser(store, "pat@example.com", authgate.NewOpaqueToken(), time.Now().Add(10*time.Minute))

		err := newVerifyHandler(store).Execute(context.Background(), authgate.AccountVerificationMessage{
			Token: authgate.NewOpaqueToken(),
			Email: "pat@example.com",
		})
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeInvalidToken, textCodeOf(err))
		assert.Equal(t, "Invalid Link", messageOf(err))

		assert.False(t, store.get("pat@example.com").IsVerified)
	})

	t.Run("mismatch on an expired record still reads invalid", func(t *testing.T) {
		store := newMemStore()
		seedPendingUser(store, "pat@example.com", authgate.NewOpaqueToken(), time.Now().Add(-time.Minute))

		err := newVerifyHandler(store).Execute(context.Background(), authgate.AccountVerificationMessage{
			Token: authgate.NewOpaqueToken(),
			Email: "pat@example.com",
		})
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeInvalidToken, textCodeOf(err))
	})

	t.Run("matching token past expiry", func(t *testing.T) {
		store := newMemStore()
		token := authgate.NewOpaqueToken()
		seedPendingUser(store, "pat@example.com", token, time.Now().Add(-time.Second))

		err := newVerifyHandler(store).Execute(context.Background(), authgate.AccountVerificationMessage{
			Token: token,
			Email: "pat@example.com",
		})
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeExpiredToken, textCodeOf(err))
		assert.Equal(t, "Link is Expired", messageOf(err))
	})

	t.Run("accepted just before expiry", func(t *testing.T) {
		store := newMemStore()
		token := authgate.NewOpaqueToken()
		seedPendingUser(store, "pat@example.com", token, time.Now().Add(2*time.Second))

		err := newVerifyHandler(store).Execute(context.Background(), authgate.AccountVerificationMessage{
			Token: token,
			Email: "pat@example.com",
		})
		assert.NoError(t, err)
	})

	t.Run("token is single use", func(t *testing.T) {
		store := newMemStore()
		token := authgate.NewOpaqueToken()
		seedPendingUser(store, "pat@example.com", token, time.Now().Add(10*time.Minute))

		handler := newVerifyHandler(store)
		msg := authgate.AccountVerificationMessage{Token: token, Email: "pat@example.com"}

		require.NoError(t, handler.Execute(context.Background(), msg))

		err := handler.Execute(context.Background(), msg)
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeInvalidToken, textCodeOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		err := newVerifyHandler(newMemStore()).Execute(context.Background(), authgate.AccountVerificationMessage{
			Token: authgate.NewOpaqueToken(),
			Email: "nobody@example.com",
		})
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeNotFound, textCodeOf(err))
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		handler := newVerifyHandler(newMemStore())

		err := handler.Execute(context.Background(), authgate.AccountVerificationMessage{Email: "pat@example.com"})
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeValidation, textCodeOf(err))

		err = handler.Execute(context.Background(), authgate.AccountVerificationMessage{Token: "abc"})
		require.Error(t, err)
		assert.Equal(t, authgate.TextCodeValidation, textCodeOf(err))
	})
}
