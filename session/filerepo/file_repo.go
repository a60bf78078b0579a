// Package filerepo persists the session credentials as a small JSON file.
package filerepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/session"
)

var _ session.Repo = (*FileRepo)(nil)

// FileRepo stores the credential pair at a fixed path. Writes go to a temp file that is
// renamed over the target, so readers never see a half-written pair.
type FileRepo struct {
	path string
	mu   sync.Mutex
}

func New(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) Get(_ context.Context) (*session.Tokens, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrNoSession
		}
		return nil, fmt.Errorf("FileRepo.Get: %w", err)
	}

	var tokens session.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("FileRepo.Get decode %s: %w", r.path, err)
	}
	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		return nil, apperrors.ErrNoSession
	}
	return &tokens, nil
}

func (r *FileRepo) Upsert(_ context.Context, tokens *session.Tokens) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("FileRepo.Upsert encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("FileRepo.Upsert mkdir: %w", err)
	}

	tempFile := r.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("FileRepo.Upsert write temp file: %w", err)
	}

	if err := os.Rename(tempFile, r.path); err != nil {
		if removeErr := os.Remove(tempFile); removeErr != nil {
			return fmt.Errorf("FileRepo.Upsert rename: %v; remove temp file: %w", err, removeErr)
		}
		return fmt.Errorf("FileRepo.Upsert rename: %w", err)
	}
	return nil
}

func (r *FileRepo) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("FileRepo.Delete: %w", err)
	}
	return nil
}
