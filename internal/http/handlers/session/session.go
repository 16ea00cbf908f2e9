// Package session реализует обработчики состояния сессии портала:
// текущее состояние, выход, повторное подключение к серверу и
// публичные формы.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/models"
	"github.com/magabrotheeeer/medvault/internal/routegate"
)

// Controller операции контроллера сессии, нужные обработчикам.
type Controller interface {
	State() auth.State
	Logout(ctx context.Context)
	RetryConnection(ctx context.Context)
}

// View состояние сессии для клиента портала.
type View struct {
	Phase           string              `json:"phase"`
	User            *models.UserProfile `json:"user,omitempty"`
	ServerConnected bool                `json:"serverConnected"`
	ServerError     bool                `json:"serverError"`
	ExpiresAt       *time.Time          `json:"expiresAt,omitempty"`
	Dashboard       string              `json:"dashboard,omitempty"`
}

func viewOf(st auth.State) View {
	v := View{
		Phase:           st.Phase().String(),
		User:            st.User,
		ServerConnected: st.ServerConnected,
		ServerError:     st.ServerError,
		ExpiresAt:       st.ExpiresAt,
	}
	if st.User != nil {
		v.Dashboard = routegate.DashboardFor(st.User.Role)
	}
	return v
}

// Handlers набор обработчиков сессии.
type Handlers struct {
	log  *slog.Logger
	ctrl Controller
}

func New(log *slog.Logger, ctrl Controller) *Handlers {
	return &Handlers{log: log, ctrl: ctrl}
}

// State GET /session.
//
// @Summary Состояние сессии
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response{data=View} "Фаза, профиль и флаги сервера"
// @Router /session [get]
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(viewOf(h.ctrl.State())))
}

// Logout POST /logout: сессия завершается, клиент уходит на вход.
//
// @Summary Выход
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response "redirect на /login"
// @Router /logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Logout"
	h.ctrl.Logout(r.Context())
	h.log.Info("user logged out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"redirect": routegate.Login}))
}

// Retry POST /retry: повторная проверка сервера и загрузка сессии.
//
// @Summary Повторное подключение к серверу
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response{data=View} "Сервер доступен"
// @Failure 503 {object} response.Response{data=View} "Сервер по-прежнему недоступен"
// @Router /retry [post]
func (h *Handlers) Retry(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Retry"
	h.ctrl.RetryConnection(r.Context())
	st := h.ctrl.State()
	h.log.Info("connection retried",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("connected", st.ServerConnected),
	)
	if st.Phase() == auth.ServerUnreachable {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response.StatusOKWithData(viewOf(st)))
}

// Public GET публичной формы (вход, регистрация, установка пароля).
// Форма доступна и вошедшему пользователю; data содержит его профиль.
func (h *Handlers) Public(form string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"view": form,
			"user": h.ctrl.State().User,
		}))
	}
}
