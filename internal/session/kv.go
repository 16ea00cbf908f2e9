// Package session реализует долговременное хранилище сессии клиента.
//
// Бэкенды (память, файл, SQLite, Redis) предоставляют простой контракт
// ключ-значение KV. Store поверх него хранит пару «токен + профиль»
// и гарантирует, что оба ключа записываются и удаляются вместе.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed возвращается бэкендом после Close.
var ErrClosed = errors.New("session backend is closed")

// KV контракт долговременного хранилища ключ-значение.
//
// Отсутствующий ключ не является ошибкой: Get возвращает found=false,
// Remove молча пропускает его. SetMany записывает все пары атомарно.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, pairs map[string]string) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// Memory хранилище в памяти процесса. Не переживает перезапуск,
// используется в тестах и для драйвера "memory".
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	return m.SetMany(ctx, map[string]string{key: value})
}

func (m *Memory) SetMany(_ context.Context, pairs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for k, v := range pairs {
		m.data[k] = v
	}
	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
