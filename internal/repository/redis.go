package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxUpdateRetries = 50

// redisRepo stores each user as a JSON document at user:<id> with an email
// index at user:email:<email> holding the id.
type redisRepo struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("repository: redis ping: %w", err)
	}

	return client, nil
}

func NewRedis(p Params) (Repository, error) {
	client, err := NewRedisClient(context.Background(), p.Config.Redis.Addr)
	if err != nil {
		return nil, err
	}

	p.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return newRedisRepo(client, p.Log), nil
}

func newRedisRepo(client *redis.Client, log *zap.Logger) *redisRepo {
	return &redisRepo{client: client, log: log}
}

func userKey(id string) string {
	return "user:" + id
}

func emailKey(email string) string {
	return "user:email:" + email
}

func (r *redisRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := r.client.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *redisRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	b, err := r.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &u, nil
}

func (r *redisRepo) Insert(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	b, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// The email index doubles as the uniqueness lock.
	ok, err := r.client.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}

	if err := r.client.Set(ctx, userKey(user.ID), b, 0).Err(); err != nil {
		r.client.Del(ctx, emailKey(user.Email))
		return err
	}
	return nil
}

// UpdateFields runs the read, apply and write under WATCH on the user key,
// and on the new email key when the email changes. A concurrent writer
// aborts the transaction and the whole update is retried on fresh data.
func (r *redisRepo) UpdateFields(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	var updated *model.User

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, userKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var u model.User
		if err := json.Unmarshal(b, &u); err != nil {
			return fmt.Errorf("decode user %s: %w", id, err)
		}
		oldEmail := u.Email

		apply(&u, update)
		u.UpdatedAt = time.Now().UTC()

		emailChanged := u.Email != oldEmail
		if emailChanged {
			if err := tx.Watch(ctx, emailKey(u.Email)).Err(); err != nil {
				return err
			}
			n, err := tx.Exists(ctx, emailKey(u.Email)).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicate
			}
		}

		nb, err := json.Marshal(&u)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(u.ID), nb, 0)
			if emailChanged {
				pipe.Set(ctx, emailKey(u.Email), u.ID, 0)
				pipe.Del(ctx, emailKey(oldEmail))
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = &u
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, userKey(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	r.log.Warn("user update kept conflicting", zap.String("id", id))
	return nil, fmt.Errorf("update user %s: %w", id, redis.TxFailedErr)
}
