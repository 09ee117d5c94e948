package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type AccountVerificationMessage struct {
	Token      string `json:"token"`
	Email      string `json:"email"`
	OnResponse func(resp *AccountVerificationResponse)
}

func (e AccountVerificationMessage) Type() string { return "user.account_verify" }

type AccountVerificationResponse struct {
	SessionToken string
	User         *User
}

// AccountVerificationHandler consumes a pending verification token, marks
// the account verified, and issues a session token so the client is signed
// in immediately after verifying.
type AccountVerificationHandler struct {
	store  UserStore
	tokens TokenService
	logger Logger
}

func NewAccountVerificationHandler(store UserStore, tokens TokenService) *AccountVerificationHandler {
	return &AccountVerificationHandler{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *AccountVerificationHandler) WithLogger(logger Logger) *AccountVerificationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *AccountVerificationHandler) Execute(ctx context.Context, event AccountVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *AccountVerificationHandler) execute(ctx context.Context, event AccountVerificationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Token == "" || event.Email == "" {
		return goerrors.New("token and email are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	user, err := h.store.GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for verification").
			WithTextCode(TextCodeInternal)
	}

	// Mismatch before expiry: a token that never matched must not reveal
	// whether some other token would have been expired.
	if !TokensEqual(event.Token, user.VerifyToken) {
		return ErrInvalidVerifyToken
	}

	if user.VerifyTokenExpiresAt == nil || time.Now().After(*user.VerifyTokenExpiresAt) {
		return ErrExpiredVerifyToken
	}

	swapped, err := h.store.ConsumeVerifyToken(ctx, event.Email, event.Token)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to consume verification token").
			WithTextCode(TextCodeInternal)
	}
	if !swapped {
		// Lost the race against a concurrent consumption.
		return ErrInvalidVerifyToken
	}

	user.IsVerified = true
	user.VerifyToken = ""
	user.VerifyTokenExpiresAt = nil

	sessionToken, err := h.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token").
			WithTextCode(TextCodeInternal)
	}

	if event.OnResponse != nil {
		event.OnResponse(&AccountVerificationResponse{
			SessionToken: sessionToken,
			User:         user,
		})
	}

	return nil
}
