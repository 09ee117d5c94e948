package authgate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	user := &authgate.User{ID: uuid.New(), Email: "pat@example.com"}

	ctx := authgate.WithContext(context.Background(), user)

	got, ok := authgate.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = authgate.FromContext(context.Background())
	assert.False(t, ok)
}

func TestClaimsContext(t *testing.T) {
	ts := authgate.NewTokenService([]byte("test-signing-key"), 0, "authgate", testLogger{})

	token, err := ts.Generate(testIdentity{id: "user-123", email: "pat@example.com"})
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	ctx := authgate.WithClaimsContext(context.Background(), claims)

	got, ok := authgate.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-123", got.UserID())
	assert.Equal(t, "pat@example.com", got.Email())

	_, ok = authgate.GetClaims(context.Background())
	assert.False(t, ok)
}
