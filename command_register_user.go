package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

type RegisterUserMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	store     UserStore
	notifier  Notifier
	verifyURL string
	logger    Logger
}

func NewRegisterUserHandler(store UserStore, notifier Notifier, verifyURL string) *RegisterUserHandler {
	return &RegisterUserHandler{
		store:     store,
		notifier:  notifier,
		verifyURL: verifyURL,
		logger:    defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Name == "" || event.Email == "" || event.Password == "" {
		return goerrors.New("name, email and password are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	if existing, err := h.store.GetByEmail(ctx, event.Email); err == nil && existing != nil {
		return ErrUserConflict
	} else if err != nil && !goerrors.IsNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user").
			WithTextCode(TextCodeInternal)
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password").
			WithTextCode(TextCodeInternal)
	}

	token := NewOpaqueToken()
	expiresAt := time.Now().Add(OpaqueTokenTTL)

	user := &User{
		Name:                 event.Name,
		Email:                event.Email,
		PasswordHash:         hash,
		IsVerified:           false,
		VerifyToken:          token,
		VerifyTokenExpiresAt: &expiresAt,
	}

	if id, err := hashid.NewUUID(event.Email); err == nil {
		user.ID = id
	}

	created, err := h.store.Register(ctx, user)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration failed").
			WithTextCode(TextCodeInternal)
	}

	// Delivery is fire and forget: registration already succeeded, a
	// failed send is only logged.
	go h.deliverVerification(created, token)

	return nil
}

func (h *RegisterUserHandler) deliverVerification(user *User, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()

	link := tokenLink(h.verifyURL, token, user.Email)
	body := renderEmail(verifyEmailTmpl, user.Name, link)

	if err := h.notifier.Send(ctx, user.Email, "Verify your account", body); err != nil {
		h.logger.Error("verification email delivery failed: %v user=%s", err, user.ID.String())
	}
}
