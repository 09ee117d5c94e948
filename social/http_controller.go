package social

import (
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lunarhq/authgate"
)

// HTTPController handles social auth HTTP routes.
type HTTPController struct {
	authenticator *SocialAuthenticator
	config        HTTPConfig
	logger        authgate.Logger
}

// HTTPConfig configures the HTTP controller.
type HTTPConfig struct {
	// PathPrefix for routes (default: "/oauth")
	PathPrefix string

	// CookieName for storing the session JWT
	CookieName string

	// CookieTTL for the session cookie
	CookieTTL time.Duration

	Logger authgate.Logger
}

// NewHTTPController creates a new social auth HTTP controller.
func NewHTTPController(auth *SocialAuthenticator, cfg HTTPConfig) *HTTPController {
	if auth == nil {
		panic("Missing social authenticator in social controller...")
	}

	if cfg.PathPrefix == "" {
		cfg.PathPrefix = "/oauth"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = authgate.DefaultSessionCookieName
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = authgate.SessionTokenTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = authgate.DefaultLogger
	}

	return &HTTPController{
		authenticator: auth,
		config:        cfg,
		logger:        logger,
	}
}

// RegisterRoutes mounts the provider login and callback routes.
func (c *HTTPController) RegisterRoutes(app *fiber.App) {
	group := app.Group(c.config.PathPrefix)
	group.Post("/:provider/login", c.LoginPost)
	group.Post("/:provider/callback", c.CallbackPost)
}

// LoginPost redirects the caller to the provider's authorization page.
func (c *HTTPController) LoginPost(ctx *fiber.Ctx) error {
	providerName := ctx.Params("provider")

	redirect, err := c.authenticator.BeginAuth(providerName, "")
	if err != nil {
		return c.respondError(ctx, err)
	}

	return ctx.Redirect(redirect, fiber.StatusTemporaryRedirect)
}

// CallbackPost completes the OAuth flow: code exchange, profile fetch,
// account resolution, and session cookie issuance.
func (c *HTTPController) CallbackPost(ctx *fiber.Ctx) error {
	providerName := ctx.Params("provider")
	code := ctx.Query("code")

	result, err := c.authenticator.CompleteAuth(ctx.UserContext(), providerName, code)
	if err != nil {
		return c.respondError(ctx, err)
	}

	ctx.Cookie(authgate.SessionCookie(c.config.CookieName, result.Token, c.config.CookieTTL))

	message := "logged in"
	if result.IsNewUser {
		message = "registered"
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func (c *HTTPController) respondError(ctx *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal).
			WithTextCode("INTERNAL")
	}

	c.logger.Error("social auth error: %s text_code=%s", richErr.Message, richErr.TextCode)

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": richErr.Message,
	})
}
