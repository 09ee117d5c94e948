package authgate

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

var _ Authenticator = (*Auther)(nil)

type Auther struct {
	store        UserStore
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store UserStore, tokenService TokenService) *Auther {
	return &Auther{
		store:        store,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and returns a signed session token. A missing
// account and a wrong password are distinct failures: the first is
// ErrIdentityNotFound, the second ErrMismatchedHashAndPassword.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", goerrors.New("email and password are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			s.logger.Warn("Login attempt for unknown email")
			return "", ErrIdentityNotFound
		}
		s.logger.Error("Login user lookup failed: %v", err)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user").
			WithTextCode(TextCodeInternal)
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("Login password mismatch user=%s", user.ID.String())
		return "", ErrMismatchedHashAndPassword
	}

	token, err := s.tokenService.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Login token generation failed: %v", err)
		return "", err
	}

	return token, nil
}

// SessionFromToken validates a raw session token and materializes a Session
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed: %v", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims: %v", err)
		return nil, err
	}

	return session, nil
}
