package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/magabrotheeeer/medvault/internal/lib/sl"
)

// File хранит все ключи одним JSON-документом на диске. Каждая запись
// переписывает документ целиком через временный файл и rename, поэтому
// читатель никогда не увидит половину изменений. Документ, который не
// удаётся разобрать, считается пустым и заменяется при следующей записи.
type File struct {
	mu     sync.Mutex
	path   string
	log    *slog.Logger
	closed bool
}

// OpenFile открывает файловое хранилище по пути path. Сам файл
// создаётся при первой записи.
func OpenFile(path string, log *slog.Logger) (*File, error) {
	const op = "session.OpenFile"
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%s: storage path is required", op)
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o700); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	f := &File{path: clean, log: log}
	if _, err := f.read(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	doc := map[string]string{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		f.log.Warn("session file is malformed, treating as empty",
			slog.String("op", "session.File.read"),
			slog.String("path", f.path),
			sl.Err(err),
		)
		return map[string]string{}, nil
	}
	return doc, nil
}

func (f *File) write(doc map[string]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".medvault-session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	const op = "session.File.Get"
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *File) SetMany(_ context.Context, pairs map[string]string) error {
	const op = "session.File.SetMany"
	return f.update(op, func(doc map[string]string) {
		for k, v := range pairs {
			doc[k] = v
		}
	})
}

func (f *File) Remove(_ context.Context, keys ...string) error {
	const op = "session.File.Remove"
	return f.update(op, func(doc map[string]string) {
		for _, k := range keys {
			delete(doc, k)
		}
	})
}

func (f *File) update(op string, mutate func(map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	doc, err := f.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	mutate(doc)
	if err := f.write(doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
