package session

import "context"

// Fixed keys under which the two credentials are persisted.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Tokens is the durable credential pair.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Complete reports whether both credentials are present. A pair missing either value
// means "not authenticated".
func (t *Tokens) Complete() bool {
	return t != nil && t.AccessToken != "" && t.RefreshToken != ""
}

// Repo is durable storage for the session credentials.
// Get returns errors.ErrNoSession when nothing is stored. Delete is idempotent.
type Repo interface {
	Get(ctx context.Context) (*Tokens, error)
	Upsert(ctx context.Context, tokens *Tokens) error
	Delete(ctx context.Context) error
}
