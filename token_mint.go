package authgate

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// OpaqueTokenTTL is the absolute lifetime of verification and reset tokens.
	OpaqueTokenTTL = 15 * time.Minute
	// SessionTokenTTL is the lifetime of issued session JWTs.
	SessionTokenTTL = 7 * 24 * time.Hour
)

// NewOpaqueToken mints a random token for verification and reset links:
// 16 bytes from crypto/rand, hex encoded to 32 characters.
func NewOpaqueToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to mint
		// security tokens.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// TokensEqual compares two opaque tokens in constant time.
func TokensEqual(a, b string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// MintSessionToken mints a session JWT with an explicit issue time, using
// TokenService defaults for issuer and TTL. It exists for callers that need
// control over iat, such as expiry tests; the auth flows all go through
// TokenService.Generate.
func MintSessionToken(tokenService TokenService, identity Identity, issuedAt time.Time) (string, time.Time, error) {
	if tokenService == nil {
		return "", time.Time{}, goerrors.New("token service is required", goerrors.CategoryBadInput)
	}
	if identity == nil {
		return "", time.Time{}, goerrors.New("identity is required", goerrors.CategoryBadInput)
	}

	issuer := ""
	ttl := SessionTokenTTL
	if provider, ok := tokenService.(tokenDefaultsProvider); ok {
		defaults := provider.tokenDefaults()
		issuer = defaults.issuer
		if defaults.ttl > 0 {
			ttl = defaults.ttl
		}
	}

	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	expiresAt := issuedAt.Add(ttl)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:       identity.ID(),
		UserEmail: identity.Email(),
		UserName:  identity.Name(),
	}

	ensureTokenID(&claims.RegisteredClaims)

	token, err := tokenService.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

type tokenDefaults struct {
	issuer string
	ttl    time.Duration
}

type tokenDefaultsProvider interface {
	tokenDefaults() tokenDefaults
}
