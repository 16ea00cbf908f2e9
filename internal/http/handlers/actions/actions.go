// Package actions реализует обработчики изменяющих действий портала:
// запись на приём, смена статуса, отзывы, уведомления, документы.
// Обработчик разбирает и проверяет форму, вызывает бэкенд и отдаёт ответ.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/medvault/internal/http/handlers/views"
	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// Form действие с JSON-формой типа T.
type Form[T any] struct {
	log      *slog.Logger
	op       string
	status   int
	call     func(ctx context.Context, r *http.Request, form T) (models.Resource, error)
	validate *validator.Validate
}

// Submit создаёт обработчик действия с формой. status задаёт код успешного ответа.
func Submit[T any](log *slog.Logger, op string, status int, call func(ctx context.Context, r *http.Request, form T) (models.Resource, error)) *Form[T] {
	return &Form[T]{
		log:      log,
		op:       op,
		status:   status,
		call:     call,
		validate: validator.New(),
	}
}

func (h *Form[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var form T
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
	}

	res, err := h.call(r.Context(), r, form)
	if err != nil {
		log.Error("action failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("action completed")
	render.Status(r, h.status)
	render.JSON(w, r, response.StatusOKWithData(res))
}

// Command действие над ресурсом по id без тела запроса.
type Command struct {
	log  *slog.Logger
	op   string
	call func(ctx context.Context, id int64) error
}

// ByID создаёт обработчик команды над ресурсом из параметра маршрута {id}.
func ByID(log *slog.Logger, op string, call func(ctx context.Context, id int64) error) *Command {
	return &Command{log: log, op: op, call: call}
}

// All создаёт обработчик команды без параметров.
func All(log *slog.Logger, op string, call func(ctx context.Context) error) *Command {
	return &Command{log: log, op: op, call: func(ctx context.Context, _ int64) error { return call(ctx) }}
}

func (h *Command) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var id int64
	if raw := routeID(r); raw != "" {
		parsed, err := views.ID(r, "id")
		if err != nil {
			log.Error("failed to decode id from url", sl.Err(err))
			response.Fail(w, r, fmt.Errorf("id %q: %w", raw, response.ErrInvalidParam))
			return
		}
		id = parsed
	}

	if err := h.call(r.Context(), id); err != nil {
		log.Error("command failed", sl.Err(err), slog.Int64("id", id))
		response.Fail(w, r, err)
		return
	}

	log.Info("command completed", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// PathID разбирает {id} маршрута; для действий с формой.
func PathID(r *http.Request) (int64, error) {
	id, err := views.ID(r, "id")
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", routeID(r), response.ErrInvalidParam)
	}
	return id, nil
}

func routeID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
