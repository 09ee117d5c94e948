package authgate

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultSessionCookieName is used when no cookie name is configured.
const DefaultSessionCookieName = "authgate_session"

// SessionCookie builds the session cookie carrying a signed token. The
// cookie is HttpOnly and Secure with SameSite=None so the single
// cross-origin frontend can send it on credentialed requests.
func SessionCookie(name, token string, ttl time.Duration) *fiber.Cookie {
	if name == "" {
		name = DefaultSessionCookieName
	}
	if ttl <= 0 {
		ttl = SessionTokenTTL
	}

	return &fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
}

// ClearSessionCookie expires the session cookie immediately. Logout always
// succeeds, whether or not a valid session was presented.
func ClearSessionCookie(name string) *fiber.Cookie {
	if name == "" {
		name = DefaultSessionCookieName
	}

	return &fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
}
