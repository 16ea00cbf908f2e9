package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/medvault/internal/models"
)

// Ключи, под которыми хранятся учётные данные.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNoSession сохранённой сессии нет или она была неполной.
var ErrNoSession = errors.New("no stored session")

// Record пара «токен + профиль». Существует только целиком.
type Record struct {
	Token string
	User  models.UserProfile
}

// Store хранит Record поверх KV. Токен и профиль пишутся одной
// операцией SetMany и удаляются одной операцией Remove.
type Store struct {
	kv KV
}

// NewStore оборачивает бэкенд kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Save сохраняет токен и профиль вместе.
func (s *Store) Save(ctx context.Context, rec Record) error {
	const op = "session.Store.Save"
	if rec.Token == "" {
		return fmt.Errorf("%s: empty token", op)
	}
	user, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.kv.SetMany(ctx, map[string]string{
		KeyToken: rec.Token,
		KeyUser:  string(user),
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load возвращает сохранённую сессию. Если есть только один из ключей
// или профиль не разбирается, оба ключа удаляются и возвращается
// ErrNoSession: частичным данным сессии доверять нельзя.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	const op = "session.Store.Load"
	token, hasToken, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rawUser, hasUser, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !hasToken || !hasUser || token == "" || rawUser == "" {
		if err := s.Clear(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, ErrNoSession
	}

	user, err := models.ParseProfile([]byte(rawUser))
	if err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("%s: %w", op, clearErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return &Record{Token: token, User: *user}, nil
}

// Token возвращает сохранённый токен, если он есть.
func (s *Store) Token(ctx context.Context) (string, bool, error) {
	token, ok, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return "", false, fmt.Errorf("session.Store.Token: %w", err)
	}
	return token, ok && token != "", nil
}

// Clear удаляет токен и профиль вместе.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("session.Store.Clear: %w", err)
	}
	return nil
}

// Close закрывает бэкенд.
func (s *Store) Close() error {
	return s.kv.Close()
}
