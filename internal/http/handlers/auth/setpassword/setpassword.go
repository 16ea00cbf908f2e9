// Package setpassword реализует установку пароля по одноразовому токену
// из письма и оценку надёжности пароля для формы.
package setpassword

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/models"
	"github.com/magabrotheeeer/medvault/internal/routegate"
)

// Service описывает установку пароля.
type Service interface {
	SetPassword(ctx context.Context, req models.SetPasswordRequest) error
}

// Handler обрабатывает форму установки пароля. Токен берётся из тела
// или из параметра token строки запроса, как в ссылке из письма.
type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// @Summary Установка пароля
// @Description Устанавливает пароль по одноразовому токену. Сессия не создаётся.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param token query string false "Токен из письма"
// @Param request body models.SetPasswordRequest true "Токен и новый пароль"
// @Success 200 {object} response.Response "Пароль установлен"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 422 {object} response.Response "Токен отсутствует или пароли не совпадают"
// @Router /set-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.setpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.Token == "" {
		req.Token = r.URL.Query().Get("token")
	}

	if err := h.service.SetPassword(r.Context(), req); err != nil {
		log.Error("failed to set password", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("password set")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":  auth.MsgPasswordSet,
		"redirect": routegate.Login,
	}))
}

// Strength оценивает надёжность пароля из тела {"password": "..."}.
//
// @Summary Надёжность пароля
// @Tags Auth
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response "strength и label"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Router /set-password/strength [post]
func Strength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	strength := auth.PasswordStrength(req.Password)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"strength": strength,
		"label":    auth.StrengthLabel(strength),
	}))
}
