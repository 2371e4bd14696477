package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Service orchestrates the token codec, the session store, the validator
// and the credential-check collaborator. It owns the in-memory session
// state: the current user and the loading flag.
type Service struct {
	mutex     sync.Mutex
	store     *SessionStore
	validator *Validator
	verifier  CredentialVerifier

	currentUser *AdminUser
	loading     bool

	// ability to inject the clock for unit testing
	NowFunc func() time.Time
}

func NewService(store *SessionStore, verifier CredentialVerifier) *Service {
	return &Service{
		store:     store,
		validator: NewValidator(),
		verifier:  verifier,
		loading:   true,
		NowFunc:   time.Now,
	}
}

// Initialize recovers a persisted session, once, at startup. An invalid
// or partial session is cleared and the service stays logged out. The
// loading flag drops in every path.
func (s *Service) Initialize(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer func() {
		s.loading = false
	}()

	user, token, err := s.store.Load(ctx)
	if err != nil {
		log.Errorf("auth service initialize, load session: %s", err)
		s.clearSession(ctx)
		return
	}

	if !s.validator.IsValid(user, token) {
		s.clearSession(ctx)
		return
	}

	s.currentUser = user
	log.Infof("auth service initialize: recovered session for [%s]", user.Username)
}

// Login clears any previous session, delegates the credential check to
// the verifier and, on success, persists a fresh (user, token) pair and
// returns the token. A definite rejection comes back as
// ErrWrongCredentials; anything else is an unexpected failure and is
// additionally logged.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// no stale state may leak into a new attempt
	s.clearSession(ctx)

	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			return "", err
		}
		log.Errorf("login for [%s]: %s", username, err)
		return "", fmt.Errorf("verify credentials: %w", err)
	}

	// the caller went away while the verifier was out, leave the state untouched
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	user.Role = RoleAdmin

	token, err := EncodeToken(user, s.NowFunc())
	if err != nil {
		log.Errorf("login for [%s], encode token: %s", username, err)
		return "", fmt.Errorf("encode token: %w", err)
	}

	if err := s.store.Save(ctx, user, token); err != nil {
		log.Errorf("login for [%s], save session: %s", username, err)
		return "", fmt.Errorf("save session: %w", err)
	}

	s.currentUser = user
	return token, nil
}

// Logout signs out upstream best-effort and always clears the local
// session.
func (s *Service) Logout(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.verifier.SignOut(ctx); err != nil {
		log.Errorf("logout, upstream sign out: %s", err)
	}

	s.clearSession(ctx)
}

// Invalidate drops the session without the upstream sign-out. Used by
// the access guard when a stored session fails re-validation.
func (s *Service) Invalidate(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clearSession(ctx)
}

func (s *Service) clearSession(ctx context.Context) {
	s.currentUser = nil
	if err := s.store.Clear(ctx); err != nil {
		log.Errorf("auth service, clear session: %s", err)
	}
}

func (s *Service) CurrentUser() *AdminUser {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.currentUser
}

func (s *Service) IsAdmin() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.currentUser != nil && s.currentUser.Role == RoleAdmin
}

func (s *Service) Loading() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.loading
}
