// Package redisrepo persists the session credentials as two Redis string keys.
package redisrepo

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/recruit-console/internal/errors"
	"github.com/jrsteele09/recruit-console/session"
	"github.com/redis/go-redis/v9"
)

var _ session.Repo = (*RedisRepo)(nil)

// RedisRepo keeps the access and refresh tokens under <prefix>access_token and
// <prefix>refresh_token. Both keys are always written or removed in one transaction.
type RedisRepo struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient, prefix string) *RedisRepo {
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) accessKey() string  { return r.prefix + session.AccessTokenKey }
func (r *RedisRepo) refreshKey() string { return r.prefix + session.RefreshTokenKey }

func (r *RedisRepo) Get(ctx context.Context) (*session.Tokens, error) {
	values, err := r.client.MGet(ctx, r.accessKey(), r.refreshKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNoSession
		}
		return nil, apperrors.Wrapf(err, "RedisRepo.Get")
	}

	access, _ := values[0].(string)
	refresh, _ := values[1].(string)
	if access == "" && refresh == "" {
		return nil, apperrors.ErrNoSession
	}
	return &session.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (r *RedisRepo) Upsert(ctx context.Context, tokens *session.Tokens) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.accessKey(), tokens.AccessToken, 0)
		pipe.Set(ctx, r.refreshKey(), tokens.RefreshToken, 0)
		return nil
	})
	return apperrors.Wrapf(err, "RedisRepo.Upsert")
}

func (r *RedisRepo) Delete(ctx context.Context) error {
	return apperrors.Wrapf(r.client.Del(ctx, r.accessKey(), r.refreshKey()).Err(), "RedisRepo.Delete")
}
