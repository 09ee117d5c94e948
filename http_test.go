package authgate_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lunarhq/authgate"
	"github.com/stretchr/testify/assert"
)

func TestSessionCookie(t *testing.T) {
	cookie := authgate.SessionCookie("my_session", "token-value", time.Hour)

	assert.Equal(t, "my_session", cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, fiber.CookieSameSiteNoneMode, cookie.SameSite)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cookie.Expires, time.Second)
}

func TestSessionCookieDefaults(t *testing.T) {
	cookie := authgate.SessionCookie("", "token-value", 0)

	assert.Equal(t, authgate.DefaultSessionCookieName, cookie.Name)
	assert.Equal(t, int(authgate.SessionTokenTTL.Seconds()), cookie.MaxAge)
}

func TestClearSessionCookie(t *testing.T) {
	cookie := authgate.ClearSessionCookie("my_session")

	assert.Equal(t, "my_session", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.Expires.Before(time.Now()))
}
