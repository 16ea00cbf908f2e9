// Package middlewarectx хранит в контексте запроса текущее представление
// портала и перенаправление, запрошенное шлюзом во время обработки.
package middlewarectx

import (
	"context"
	"net/http"
	"sync"
)

type ctxKey string

const navKey ctxKey = "navigation"

type navigation struct {
	mu       sync.Mutex
	view     string
	redirect string
}

// Navigation кладёт в контекст путь запрошенного представления.
func Navigation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), navKey, &navigation{view: r.URL.Path})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Navigator реализация gateway.Navigator поверх контекста запроса.
type Navigator struct{}

// CurrentView путь представления, которое сейчас обрабатывается.
func (Navigator) CurrentView(ctx context.Context) string {
	n, ok := ctx.Value(navKey).(*navigation)
	if !ok {
		return ""
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Redirect запоминает перенаправление; его выполняет обработчик при ответе.
func (Navigator) Redirect(ctx context.Context, view string) {
	n, ok := ctx.Value(navKey).(*navigation)
	if !ok {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirect = view
}

// RedirectTarget возвращает перенаправление, если оно было запрошено.
func RedirectTarget(ctx context.Context) (string, bool) {
	n, ok := ctx.Value(navKey).(*navigation)
	if !ok {
		return "", false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirect, n.redirect != ""
}
