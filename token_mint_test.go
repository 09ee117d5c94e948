package authgate_test

import (
	"testing"

	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
)

func TestNewOpaqueToken(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		token := authgate.NewOpaqueToken()
		assert.Len(t, token, 32)
		assert.Regexp(t, "^[0-9a-f]{32}$", token)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestTokensEqual(t *testing.T) {
	token := authgate.NewOpaqueToken()

	assert.True(t, authgate.TokensEqual(token, token))
	assert.False(t, authgate.TokensEqual(token, authgate.NewOpaqueToken()))

	// Empty never matches, including empty vs empty: an account with no
	// pending token must not verify with an empty submitted token.
	assert.False(t, authgate.TokensEqual("", ""))
	assert.False(t, authgate.TokensEqual(token, ""))
	assert.False(t, authgate.TokensEqual("", token))
}
