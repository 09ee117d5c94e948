package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type FinalizePasswordResetMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

// FinalizePasswordResetHandler re-hashes and stores the new password. It
// does not require that a reset link was verified first; the only guard is
// the account existing. Callers are expected to run the verify step before
// exposing this operation.
type FinalizePasswordResetHandler struct {
	store  UserStore
	logger Logger
}

// NewFinalizePasswordResetHandler creates a handler with sane defaults.
func NewFinalizePasswordResetHandler(store UserStore) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Email == "" || event.Password == "" {
		return goerrors.New("email and password are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	user, err := h.store.GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password change").
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

	if err := h.store.ResetPassword(ctx, user.ID, hash); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store new password").
			WithTextCode(TextCodeInternal)
	}

	h.logger.Info("password changed user=%s", user.ID.String())

	return nil
}
