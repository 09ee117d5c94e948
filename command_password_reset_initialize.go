package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	User    *User
	Success bool
}

// InitializePasswordResetHandler issues a reset token for an existing
// account and mails the reset link.
type InitializePasswordResetHandler struct {
	store    UserStore
	notifier Notifier
	resetURL string
	logger   Logger
}

func NewInitializePasswordResetHandler(store UserStore, notifier Notifier, resetURL string) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		store:    store,
		notifier: notifier,
		resetURL: resetURL,
		logger:   defLogger{},
	}
}

func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Email == "" {
		return goerrors.New("email is required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	user, err := h.store.GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset").
			WithTextCode(TextCodeInternal)
	}

	token := NewOpaqueToken()
	expiresAt := time.Now().Add(OpaqueTokenTTL)

	// A repeated request overwrites any pending token, so only the latest
	// link is usable.
	if err := h.store.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token").
			WithTextCode(TextCodeInternal)
	}

	go h.deliverReset(user, token)

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			User:    user,
			Success: true,
		})
	}

	return nil
}

func (h *InitializePasswordResetHandler) deliverReset(user *User, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()

	link := tokenLink(h.resetURL, token, user.Email)
	body := renderEmail(resetEmailTmpl, user.Name, link)

	if err := h.notifier.Send(ctx, user.Email, "Reset your password", body); err != nil {
		h.logger.Error("reset email delivery failed: %v user=%s", err, user.ID.String())
	}
}
