package authgate

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type AuthControllerRoutes struct {
	Register         string
	AccountVerify    string
	SignIn           string
	Logout           string
	IsAuth           string
	SendResetToken   string
	VerifyResetToken string
	ResetPassword    string
}

type AuthController struct {
	Debug         bool
	Logger        Logger
	Auther        Authenticator
	Register      *RegisterUserHandler
	Verify        *AccountVerificationHandler
	ResetInit     *InitializePasswordResetHandler
	ResetVerify   *VerifyPasswordResetHandler
	ResetFinalize *FinalizePasswordResetHandler
	Routes        *AuthControllerRoutes
	CookieName    string
	CookieTTL     time.Duration
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		CookieName: DefaultSessionCookieName,
		CookieTTL:  SessionTokenTTL,
		Routes: &AuthControllerRoutes{
			Register:         "/register",
			AccountVerify:    "/account-verify",
			SignIn:           "/signin",
			Logout:           "/logout",
			IsAuth:           "/is-auth",
			SendResetToken:   "/send-reset-token",
			VerifyResetToken: "/verify-reset-token",
			ResetPassword:    "/reset-password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Register == nil || c.Verify == nil {
		panic("Missing registration handlers in auth controller...")
	}

	if c.ResetInit == nil || c.ResetVerify == nil || c.ResetFinalize == nil {
		panic("Missing password reset handlers in auth controller...")
	}

	return c
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithFlowHandlers(
	register *RegisterUserHandler,
	verify *AccountVerificationHandler,
	resetInit *InitializePasswordResetHandler,
	resetVerify *VerifyPasswordResetHandler,
	resetFinalize *FinalizePasswordResetHandler,
) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = register
		c.Verify = verify
		c.ResetInit = resetInit
		c.ResetVerify = resetVerify
		c.ResetFinalize = resetFinalize
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithSessionCookie(name string, ttl time.Duration) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if name != "" {
			c.CookieName = name
		}
		if ttl > 0 {
			c.CookieTTL = ttl
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts every credential flow route on the app. The
// protected middleware guards the is-auth route only.
func RegisterAuthRoutes(app *fiber.App, protected fiber.Handler, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.AccountVerify, controller.AccountVerifyPost)
	app.Post(controller.Routes.SignIn, controller.SignInPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Post(controller.Routes.IsAuth, protected, controller.IsAuthPost)
	app.Post(controller.Routes.SendResetToken, controller.SendResetTokenPost)
	app.Post(controller.Routes.VerifyResetToken, controller.VerifyResetTokenPost)
	app.Post(controller.Routes.ResetPassword, controller.ResetPasswordPost)

	return controller
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		return a.respondParseError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(c, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	msg := RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	}

	if err := a.Register.Execute(c.UserContext(), msg); err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification email sent to your account",
	})
}

// AccountVerifyPayload carries the emailed verification link values
type AccountVerifyPayload struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Validate will run validation rules
func (r AccountVerifyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) AccountVerifyPost(c *fiber.Ctx) error {
	payload := new(AccountVerifyPayload)

	if err := c.BodyParser(payload); err != nil {
		return a.respondParseError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(c, err)
	}

	var res *AccountVerificationResponse

	msg := AccountVerificationMessage{
		Token: payload.Token,
		Email: payload.Email,
		OnResponse: func(resp *AccountVerificationResponse) {
			res = resp
		},
	}

	if err := a.Verify.Execute(c.UserContext(), msg); err != nil {
		return a.respondError(c, err)
	}

	if res == nil || res.SessionToken == "" {
		return a.respondError(c, ErrUnableToDecodeSession)
	}

	c.Cookie(SessionCookie(a.CookieName, res.SessionToken, a.CookieTTL))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account verified",
	})
}

// SignInPayload is the credential login body
type SignInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r SignInPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignInPost(c *fiber.Ctx) error {
	payload := new(SignInPayload)

	if err := c.BodyParser(payload); err != nil {
		return a.respondParseError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(c, err)
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(c, err)
	}

	c.Cookie(SessionCookie(a.CookieName, token, a.CookieTTL))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Signed in",
	})
}

func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	c.Cookie(ClearSessionCookie(a.CookieName))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Signed out",
	})
}

// IsAuthPost runs behind the session middleware; reaching the handler means
// the cookie validated.
func (a *AuthController) IsAuthPost(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ResetRequestPayload asks for a reset link
type ResetRequestPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r ResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) SendResetTokenPost(c *fiber.Ctx) error {
	payload := new(ResetRequestPayload)

	if err := c.BodyParser(payload); err != nil {
		return a.respondParseError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(c, err)
	}

	msg := InitializePasswordResetMessage{Email: payload.Email}

	if err := a.ResetInit.Execute(c.UserContext(), msg); err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reset email sent to your account",
	})
}

// ResetVerifyPayload carries the emailed reset link values
type ResetVerifyPayload struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// Validate will run validation rules
func (r ResetVerifyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ResetToken, validation.Required),
	)
}

func (a *AuthController) VerifyResetTokenPost(c *fiber.Ctx) error {
	payload := new(ResetVerifyPayload)

	if err := c.BodyParser(payload); err != nil {
		return a.respondParseError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(c, err)
	}

	msg := VerifyPasswordResetMessage{
		Email:      payload.Email,
		ResetToken: payload.ResetToken,
	}

	if err := a.ResetVerify.Execute(c.UserContext(), msg); err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reset link verified",
	})
}

// ResetPasswordPayload carries the replacement password
type ResetPasswordPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) ResetPasswordPost(c *fiber.Ctx) error {
	payload := new(ResetPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		return a.respondParseError(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidationError(c, err)
	}

	msg := FinalizePasswordResetMessage{
		Email:    payload.Email,
		Password: payload.Password,
	}

	if err := a.ResetFinalize.Execute(c.UserContext(), msg); err != nil {
		return a.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed",
	})
}

func (a *AuthController) respondParseError(c *fiber.Ctx, err error) error {
	a.Logger.Error("auth controller parse payload: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Error parsing body",
	})
}

func (a *AuthController) respondValidationError(c *fiber.Ctx, err error) error {
	a.Logger.Warn("auth controller validate payload: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}

// respondError maps flow errors onto the flat response body. The status
// comes from the structured error's Code; anything unstructured is a 500.
func (a *AuthController) respondError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal).
			WithTextCode(TextCodeInternal)
	}

	a.Logger.Error("auth flow error: %s text_code=%s", richErr.Message, richErr.TextCode)

	status := richErr.Code
	if status < fiber.StatusBadRequest {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": richErr.Message,
	})
}
