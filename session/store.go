// Package session holds the console's credentials and the identity derived from them.
//
// Store is the only writer of durable session state. Every mutation is written to the
// Repo before memory is updated, so a restarted process observes either both tokens
// or neither.
package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/internal/metrics"
	"github.com/jrsteele09/recruit-console/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoginPath is the unauthenticated entry point signalled on logout.
const LoginPath = "/login"

// Navigator receives navigation signals from the store.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

type Store struct {
	repo           Repo
	navigator      Navigator
	logger         zerolog.Logger
	metrics        *metrics.Collector
	persistTimeout time.Duration

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	identity     *token.Identity
	identityFor  string // access token the cached identity was decoded from
}

type StoreOption func(*Store)

func WithNavigator(n Navigator) StoreOption {
	return func(s *Store) {
		s.navigator = n
	}
}

func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Collector) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithPersistTimeout bounds each durable read or write.
func WithPersistTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.persistTimeout = d
	}
}

// NewStore creates a store hydrated from repo. A partially stored pair is discarded.
func NewStore(repo Repo, options ...StoreOption) *Store {
	s := &Store{
		repo:      repo,
		navigator: noopNavigator{},
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.persistTimeout == 0 {
		s.persistTimeout = 5 * time.Second
	}

	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	ctx, cancel := s.persistContext()
	defer cancel()

	tokens, err := s.repo.Get(ctx)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNoSession) {
			s.logger.Err(err).Msg("Session: failed to load durable session")
		}
		return
	}

	if !tokens.Complete() {
		s.logger.Warn().Msg("Session: discarding incomplete durable session")
		if err := s.repo.Delete(ctx); err != nil {
			s.logger.Err(err).Msg("Session: failed to discard incomplete durable session")
		}
		return
	}

	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
}

// Login stores both credentials. Malformed tokens are accepted here and only rejected
// when the identity is first decoded. A pair missing either token is ignored.
func (s *Store) Login(accessToken, refreshToken string) {
	tokens := &Tokens{AccessToken: accessToken, RefreshToken: refreshToken}
	if !tokens.Complete() {
		s.logger.Warn().Msg("Session: ignoring login without both tokens")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistLocked(tokens)
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.identity = nil
	s.identityFor = ""
}

// SetAccessToken replaces the access token after a refresh, keeping the refresh token.
// It is ignored when the session has ended in the meantime. A token that cannot be
// decoded ends the session.
func (s *Store) SetAccessToken(accessToken string) {
	identity, decodeErr := token.Decode(accessToken)

	s.mu.Lock()
	if accessToken == "" || s.refreshToken == "" {
		s.mu.Unlock()
		s.logger.Warn().Msg("Session: ignoring access token update for an ended session")
		return
	}
	if decodeErr != nil {
		s.clearLocked()
		s.mu.Unlock()

		s.logger.Err(decodeErr).Msg("Session: invalid refreshed access token, logging out")
		s.metrics.ObserveLogout()
		s.navigator.Navigate(LoginPath)
		return
	}

	s.persistLocked(&Tokens{AccessToken: accessToken, RefreshToken: s.refreshToken})
	s.accessToken = accessToken
	s.identity = identity
	s.identityFor = accessToken
	s.mu.Unlock()
}

// Logout clears both credentials and signals navigation to LoginPath. Calling it on an
// empty session only repeats the navigation signal.
func (s *Store) Logout() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()

	s.metrics.ObserveLogout()
	s.navigator.Navigate(LoginPath)
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// IsAuthenticated reports whether an access token is present. An expired token still
// counts until a request fails and the session is cleaned up.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Identity returns the claims decoded from the current access token, or nil when there is
// none. A token that cannot be decoded ends the session.
func (s *Store) Identity() *token.Identity {
	s.mu.RLock()
	access := s.accessToken
	if s.identity != nil && s.identityFor == access {
		identity := *s.identity
		s.mu.RUnlock()
		return &identity
	}
	s.mu.RUnlock()

	if access == "" {
		return nil
	}

	identity, err := token.Decode(access)
	if err != nil {
		s.logger.Err(err).Msg("Session: invalid access token, logging out")
		s.logoutIfCurrent(access)
		return nil
	}

	s.mu.Lock()
	if s.accessToken == access {
		s.identity = identity
		s.identityFor = access
	}
	s.mu.Unlock()

	copied := *identity
	return &copied
}

// logoutIfCurrent logs out only when access is still the session's token, so a decode
// failure on a superseded token cannot end a newer session.
func (s *Store) logoutIfCurrent(access string) {
	s.mu.Lock()
	if s.accessToken != access {
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	s.mu.Unlock()

	s.metrics.ObserveLogout()
	s.navigator.Navigate(LoginPath)
}

func (s *Store) persistLocked(tokens *Tokens) {
	ctx, cancel := s.persistContext()
	defer cancel()
	if err := s.repo.Upsert(ctx, tokens); err != nil {
		s.logger.Err(err).Msg("Session: failed to persist session")
	}
}

func (s *Store) clearLocked() {
	ctx, cancel := s.persistContext()
	defer cancel()
	if err := s.repo.Delete(ctx); err != nil {
		s.logger.Err(err).Msg("Session: failed to clear durable session")
	}
	s.accessToken = ""
	s.refreshToken = ""
	s.identity = nil
	s.identityFor = ""
}

func (s *Store) persistContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.persistTimeout)
}
