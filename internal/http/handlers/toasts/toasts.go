// Package toasts отдаёт накопленные уведомления пользователя.
package toasts

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/notify"
)

// Source лента уведомлений.
type Source interface {
	Drain() []notify.Notice
}

// New GET /toasts: возвращает уведомления и очищает ленту.
func New(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := src.Drain()
		if items == nil {
			items = []notify.Notice{}
		}
		render.JSON(w, r, response.StatusOKWithData(items))
	}
}
