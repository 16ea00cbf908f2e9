package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/medvault/internal/api"
	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/config"
	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/notify"
	"github.com/magabrotheeeer/medvault/internal/session"
)

const toastLimit = 50

// App портал клиента: HTTP-сервер и компоненты сессии.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  *session.Store
	ctrl   *auth.Controller
}

// New собирает портал по конфигурации: хранилище сессии, шлюз с
// метриками и лимитом, эндпоинты бэкенда, контроллер сессии и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "portal.New"

	kv, err := session.Open(ctx, cfg.SessionStore, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app, err := assemble(cfg, kv, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return app, nil
}

func assemble(cfg *config.Config, kv session.KV, logger *slog.Logger) (*App, error) {
	store := session.NewStore(kv)

	feed := notify.NewFeed(toastLimit)
	notifier := notify.Multi{notify.NewLog(logger), feed}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	gw, err := gateway.New(gateway.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Store:     store,
		Notifier:  notifier,
		Navigator: middlewarectx.Navigator{},
		Metrics:   gateway.NewMetrics(reg),
		Limiter:   limiter,
		Log:       logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client := api.New(gw)
	ctrl := auth.New(client.Auth, gw, store, notifier, logger, cfg.HealthTimeout)
	gw.SetSessionExpirer(ctrl)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Ctrl:    ctrl,
		API:     client,
		Toasts:  feed,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		ctrl:   ctrl,
	}, nil
}

// Run запускает начальную загрузку сессии и HTTP-сервер. Пока загрузка
// не завершена, портал отвечает экраном ожидания.
func (a *App) Run(ctx context.Context) error {
	go a.ctrl.Init(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeStore()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeStore()
		return err
	}
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close session store", sl.Err(err))
	}
}
