// Package notify доставляет пользователю короткие уведомления («тосты»):
// об успешном входе, истёкшей сессии, сетевых ошибках и т.п.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level уровень уведомления.
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notice одно уведомление.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier получатель уведомлений.
type Notifier interface {
	Notify(level Level, message string)
}

// Log пишет уведомления в лог.
type Log struct {
	log *slog.Logger
}

// NewLog создаёт Notifier поверх логгера.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log.With(slog.String("component", "notify"))}
}

func (l *Log) Notify(level Level, message string) {
	switch level {
	case Error:
		l.log.Error(message)
	case Warning:
		l.log.Warn(message)
	default:
		l.log.Info(message, slog.String("level", string(level)))
	}
}

// Feed копит последние уведомления в кольцевом буфере, откуда их
// забирает представление.
type Feed struct {
	mu    sync.Mutex
	items []Notice
	limit int
	now   func() time.Time
}

// NewFeed создаёт ленту на limit последних уведомлений.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, now: time.Now}
}

func (f *Feed) Notify(level Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Notice{Level: level, Message: message, At: f.now()})
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notice(nil), f.items[over:]...)
	}
}

// Drain возвращает накопленные уведомления и очищает ленту.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}

// Multi рассылает уведомление всем получателям по порядку.
type Multi []Notifier

func (m Multi) Notify(level Level, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, message)
		}
	}
}

// Discard отбрасывает уведомления.
type Discard struct{}

func (Discard) Notify(Level, string) {}
