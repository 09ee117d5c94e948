package authgate_test

import (
	"testing"

	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := authgate.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, "EMPTY_PASSWORD", textCodeOf(err))
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, authgate.ComparePasswordAndHash(tt.password, hash))
		})
	}
}

func TestHashPasswordCost(t *testing.T) {
	hash, err := authgate.HashPassword("some password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, authgate.PasswordHashCost, cost)
}

func TestComparePasswordAndHashMismatch(t *testing.T) {
	hash, err := authgate.HashPassword("correct horse")
	require.NoError(t, err)

	err = authgate.ComparePasswordAndHash("battery staple", hash)
	require.Error(t, err)
	assert.Equal(t, "BAD_CREDENTIALS", textCodeOf(err))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := authgate.HashPassword("same input")
	require.NoError(t, err)
	h2, err := authgate.HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
