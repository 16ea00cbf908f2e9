package routegate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// StateSource источник состояния сессии (auth.Controller).
type StateSource interface {
	State() auth.State
}

// Тексты служебных представлений.
const (
	MsgVerifying  = "Verifying authentication..."
	MsgConnecting = "Connecting to server..."
	MsgServerDown = "Unable to connect to the server. Please check that the backend is running and try again."
)

// View тело служебного представления: ожидание или ошибка сервера.
type View struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Retry   string `json:"retry,omitempty"`
}

// Require пропускает к представлению только пользователей с ролями
// из roles. Пока сессия загружается, отдаётся экран ожидания.
func Require(src StateSource, log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "routegate.Require"
			d := Decide(src.State(), roles)
			switch d.Outcome {
			case Wait:
				waitView(w, r, MsgVerifying)
			case RedirectLogin, RedirectDashboard:
				log.Info("access redirected",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("outcome", d.Outcome.String()),
					slog.String("target", d.Target),
				)
				http.Redirect(w, r, d.Target, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Connectivity закрывает всё приложение, пока сервер недоступен: во время
// загрузки отдаётся экран ожидания, при ошибке сервера полноэкранная ошибка
// с маршрутом повторной попытки. Маршрут exempt (обычно Retry) пропускается.
func Connectivity(src StateSource, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range exempt {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}
			st := src.State()
			switch st.Phase() {
			case auth.Bootstrapping:
				waitView(w, r, MsgConnecting)
			case auth.ServerUnreachable:
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, View{Status: "server_error", Message: MsgServerDown, Retry: Retry})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func waitView(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("Retry-After", "1")
	render.Status(r, http.StatusServiceUnavailable)
	render.JSON(w, r, View{Status: "loading", Message: msg})
}
