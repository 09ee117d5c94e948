package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type VerifyPasswordResetMessage struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

func (p VerifyPasswordResetMessage) Type() string { return "user.password_reset_verify" }

// VerifyPasswordResetHandler checks a reset link. On success the token is
// cleared: the cleared token is the only marker that a password change was
// authorized, there is no separate persisted flag.
type VerifyPasswordResetHandler struct {
	store  UserStore
	logger Logger
}

func NewVerifyPasswordResetHandler(store UserStore) *VerifyPasswordResetHandler {
	return &VerifyPasswordResetHandler{
		store:  store,
		logger: defLogger{},
	}
}

func (h *VerifyPasswordResetHandler) WithLogger(logger Logger) *VerifyPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerifyPasswordResetHandler) Execute(ctx context.Context, event VerifyPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyPasswordResetHandler) execute(ctx context.Context, event VerifyPasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Email == "" || event.ResetToken == "" {
		return goerrors.New("email and reset token are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	user, err := h.store.GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for reset verification").
			WithTextCode(TextCodeInternal)
	}

	if !TokensEqual(event.ResetToken, user.ResetToken) {
		return ErrInvalidResetLink
	}

	if user.ResetTokenExpiresAt == nil || time.Now().After(*user.ResetTokenExpiresAt) {
		return ErrExpiredResetLink
	}

	swapped, err := h.store.ConsumeResetToken(ctx, event.Email, event.ResetToken)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume reset token").
			WithTextCode(TextCodeInternal)
	}
	if !swapped {
		return ErrInvalidResetLink
	}

	return nil
}
