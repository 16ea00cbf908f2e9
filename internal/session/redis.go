package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/medvault/internal/config"
)

// Redis хранилище ключей в Redis. Ключи получают префикс namespace,
// чтобы несколько установок клиента могли делить один сервер.
type Redis struct {
	Db        *redis.Client
	namespace string
}

// OpenRedis подключается к Redis и проверяет соединение.
func OpenRedis(ctx context.Context, cfg config.RedisConnection, namespace string) (*Redis, error) {
	const op = "session.OpenRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{Db: db, namespace: namespace}, nil
}

func (r *Redis) key(k string) string {
	if r.namespace == "" {
		return k
	}
	return r.namespace + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "session.Redis.Get"
	val, err := r.Db.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	const op = "session.Redis.Set"
	if err := r.Db.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetMany записывает пары одной командой MSET, которая атомарна в Redis.
func (r *Redis) SetMany(ctx context.Context, pairs map[string]string) error {
	const op = "session.Redis.SetMany"
	if len(pairs) == 0 {
		return nil
	}
	args := make([]any, 0, len(pairs)*2)
	for k, v := range pairs {
		args = append(args, r.key(k), v)
	}
	if err := r.Db.MSet(ctx, args...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, keys ...string) error {
	const op = "session.Redis.Remove"
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.Db.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.Db.Close()
}
