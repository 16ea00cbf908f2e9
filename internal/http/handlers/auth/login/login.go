// Package login реализует HTTP-обработчик формы входа.
//
// Обработчик декодирует и проверяет учётные данные, передаёт их
// контроллеру сессии и при успехе сообщает, на какую панель перейти.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/models"
	"github.com/magabrotheeeer/medvault/internal/routegate"
)

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, creds models.Credentials) (*models.UserProfile, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Контроллер сессии
	validate *validator.Validate // Валидатор формы
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// @Summary Вход пользователя
// @Description Проверяет учётные данные на бэкенде, сохраняет сессию и возвращает профиль и панель для перехода.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.Credentials true "Email и пароль"
// @Success 200 {object} response.Response "Профиль и redirect"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 401 {object} response.Response "Неверные учётные данные"
// @Failure 502 {object} response.Response "Некорректный ответ бэкенда"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("login success", slog.String("email", user.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":     user,
		"redirect": routegate.DashboardFor(user.Role),
	}))
}
