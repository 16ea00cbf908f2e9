// Package views реализует обработчики представлений, которые только
// читают ресурсы бэкенда и отдают их как есть.
//
// Fetch загружает один ресурс, Pair загружает два ресурса параллельно и
// отвечает, только когда готовы оба (панели врача и пациента, отзывы).
package views

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// Loader загружает ресурс для представления.
type Loader func(ctx context.Context, r *http.Request) (models.Resource, error)

// Source именованный ресурс представления.
type Source struct {
	Name string
	Load Loader
}

// Handler отдаёт один или несколько ресурсов бэкенда.
type Handler struct {
	log     *slog.Logger
	op      string
	sources []Source
}

// Fetch создаёт представление одного ресурса; data ответа содержит сам ресурс.
func Fetch(log *slog.Logger, op string, load Loader) *Handler {
	return &Handler{log: log, op: op, sources: []Source{{Load: load}}}
}

// Pair создаёт представление из двух ресурсов, загружаемых одновременно.
// data ответа содержит объект с ключами a.Name и b.Name.
func Pair(log *slog.Logger, op string, a, b Source) *Handler {
	return &Handler{log: log, op: op, sources: []Source{a, b}}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	results := make([]models.Resource, len(h.sources))
	g, ctx := errgroup.WithContext(r.Context())
	for i, src := range h.sources {
		g.Go(func() error {
			res, err := src.Load(ctx, r)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to load view", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	if len(h.sources) == 1 && h.sources[0].Name == "" {
		render.JSON(w, r, response.StatusOKWithData(results[0]))
		return
	}
	data := make(map[string]models.Resource, len(h.sources))
	for i, src := range h.sources {
		data[src.Name] = results[i]
	}
	log.Debug("view loaded", slog.Int("resources", len(results)))
	render.JSON(w, r, response.StatusOKWithData(data))
}

// ID разбирает числовой параметр маршрута name.
func ID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// ByID оборачивает загрузку ресурса по числовому параметру маршрута.
func ByID(name string, load func(ctx context.Context, id int64) (models.Resource, error)) Loader {
	return func(ctx context.Context, r *http.Request) (models.Resource, error) {
		id, err := ID(r, name)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", name, chi.URLParam(r, name), response.ErrInvalidParam)
		}
		return load(ctx, id)
	}
}

// Static оборачивает загрузку ресурса без параметров.
func Static(load func(ctx context.Context) (models.Resource, error)) Loader {
	return func(ctx context.Context, _ *http.Request) (models.Resource, error) {
		return load(ctx)
	}
}
