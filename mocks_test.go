package authgate_test

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/lunarhq/authgate"
)

// memStore is an in-memory UserStore with the same compare-and-swap token
// semantics as the SQL repository.
type memStore struct {
	mu    sync.Mutex
	users map[string]*authgate.User

	failGetByEmail error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*authgate.User{}}
}

func (s *memStore) seed(user *authgate.User) *authgate.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	clone := *user
	s.users[user.Email] = &clone
	return user
}

func (s *memStore) get(email string) *authgate.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[email]; ok {
		clone := *u
		return &clone
	}
	return nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*authgate.User, error) {
	if s.failGetByEmail != nil {
		return nil, s.failGetByEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, authgate.ErrIdentityNotFound
}

func (s *memStore) Register(_ context.Context, user *authgate.User) (*authgate.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return nil, authgate.ErrUserConflict
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	clone := *user
	s.users[user.Email] = &clone
	return user, nil
}

func (s *memStore) SetResetToken(_ context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			u.ResetToken = token
			exp := expiresAt
			u.ResetTokenExpiresAt = &exp
			return nil
		}
	}
	return authgate.ErrIdentityNotFound
}

func (s *memStore) ConsumeVerifyToken(_ context.Context, email, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.VerifyToken == "" || u.VerifyToken != token {
		return false, nil
	}

	u.IsVerified = true
	u.VerifyToken = ""
	u.VerifyTokenExpiresAt = nil
	return true, nil
}

func (s *memStore) ConsumeResetToken(_ context.Context, email, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.ResetToken == "" || u.ResetToken != token {
		return false, nil
	}

	u.ResetToken = ""
	u.ResetTokenExpiresAt = nil
	return true, nil
}

func (s *memStore) ResetPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return authgate.ErrIdentityNotFound
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// mockNotifier captures outbound mail; waitForSend blocks until the
// fire-and-forget delivery goroutine lands.
type mockNotifier struct {
	mu    sync.Mutex
	sent  []sentMail
	err   error
	sends chan sentMail
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sends: make(chan sentMail, 8)}
}

func (n *mockNotifier) Send(_ context.Context, to, subject, htmlBody string) error {
	n.mu.Lock()
	err := n.err
	mail := sentMail{To: to, Subject: subject, Body: htmlBody}
	if err == nil {
		n.sent = append(n.sent, mail)
	}
	n.mu.Unlock()

	n.sends <- mail

	return err
}

func (n *mockNotifier) waitForSend(timeout time.Duration) (sentMail, bool) {
	select {
	case mail := <-n.sends:
		return mail, true
	case <-time.After(timeout):
		return sentMail{}, false
	}
}

// testLogger discards everything; handler tests assert behavior, not logs.
type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

func textCodeOf(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

// messageOf returns the user-facing message of a structured error, the
// same field the HTTP layer renders. Error() prepends category/text-code.
func messageOf(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	return ""
}
