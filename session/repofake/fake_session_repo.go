package sessionrepofake

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/session"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps the two session keys in memory.
type FakeSessionRepo struct {
	values   map[string]string
	writeErr error
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		values: make(map[string]string),
	}
}

// NewFakeSessionRepoWith returns a repo pre-populated with the given key/value pairs.
func NewFakeSessionRepoWith(values map[string]string) *FakeSessionRepo {
	r := NewFakeSessionRepo()
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// FailWrites makes every subsequent Upsert and Delete return err. Pass nil to reset.
func (r *FakeSessionRepo) FailWrites(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writeErr = err
}

func (r *FakeSessionRepo) Get(_ context.Context) (*session.Tokens, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	access, hasAccess := r.values[session.AccessTokenKey]
	refresh, hasRefresh := r.values[session.RefreshTokenKey]
	if !hasAccess && !hasRefresh {
		return nil, apperrors.ErrNoSession
	}
	return &session.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (r *FakeSessionRepo) Upsert(_ context.Context, tokens *session.Tokens) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.writeErr != nil {
		return r.writeErr
	}
	r.values[session.AccessTokenKey] = tokens.AccessToken
	r.values[session.RefreshTokenKey] = tokens.RefreshToken
	return nil
}

func (r *FakeSessionRepo) Delete(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.writeErr != nil {
		return r.writeErr
	}
	delete(r.values, session.AccessTokenKey)
	delete(r.values, session.RefreshTokenKey)
	return nil
}

// Value returns the raw stored value for key.
func (r *FakeSessionRepo) Value(key string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.values[key]
	return v, ok
}
