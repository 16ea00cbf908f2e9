// Package gateway единая точка всех вызовов REST-бэкенда MedVault.
//
// Каждый запрос проходит явную цепочку middleware, собранную при
// создании Gateway: классификация ошибок и уведомления, метрики, лог,
// X-Request-ID, проверка и подстановка токена, ограничение частоты.
// Ответ 401 завершает сессию; остальные ошибки только показываются
// пользователю и возвращаются вызывающему коду.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/notify"
)

// Значения по умолчанию.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second
	ContentTypeJSON      = "application/json"
)

// Тексты уведомлений.
const (
	MsgSessionExpired = "Session expired. Please login again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "The requested resource was not found."
	MsgServerError    = "Server error. Please try again later."
	MsgNetworkError   = "Network error. Please check your connection."
)

// LoginView путь представления входа; на него ведёт принудительный выход.
const LoginView = "/login"

// CredentialStore хранилище сессии с точки зрения шлюза.
type CredentialStore interface {
	CredentialSource
	Clear(ctx context.Context) error
}

// SessionExpirer завершает сессию после ответа 401.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// Navigator знает текущее представление и умеет перенаправить на другое.
type Navigator interface {
	CurrentView(ctx context.Context) string
	Redirect(ctx context.Context, view string)
}

// Options параметры шлюза.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Store     CredentialStore
	Notifier  notify.Notifier
	Navigator Navigator
	Metrics   *Metrics
	Limiter   *rate.Limiter
	// Transport базовый исполнитель; по умолчанию *http.Client с Timeout.
	Transport Doer
	Log       *slog.Logger
}

// Gateway HTTP-клиент бэкенда.
type Gateway struct {
	baseURL  *url.URL
	log      *slog.Logger
	store    CredentialStore
	notifier notify.Notifier
	nav      Navigator

	mu      sync.RWMutex
	expirer SessionExpirer

	doer  Doer // полная цепочка
	probe Doer // цепочка без классификации, для проверки доступности
}

// New собирает шлюз и его цепочку middleware.
func New(opts Options) (*Gateway, error) {
	const op = "gateway.New"
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, opts.BaseURL)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%s: credential store is required", op)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Navigator == nil {
		opts.Navigator = noNavigation{}
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Client{Timeout: opts.Timeout}
	}

	g := &Gateway{
		baseURL:  base,
		log:      opts.Log.With(slog.String("component", "gateway")),
		store:    opts.Store,
		notifier: opts.Notifier,
		nav:      opts.Navigator,
	}
	g.doer = Chain(transport,
		g.classify,
		opts.Metrics.Middleware(),
		Logging(g.log),
		RequestID(),
		Authorize(opts.Store, g.log),
		RateLimit(opts.Limiter),
	)
	g.probe = Chain(transport,
		Logging(g.log),
		RequestID(),
	)
	return g, nil
}

// SetSessionExpirer назначает обработчик истечения сессии. Без него
// шлюз сам очищает хранилище.
func (g *Gateway) SetSessionExpirer(e SessionExpirer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expirer = e
}

// Call описание одного вызова бэкенда.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	// JSON тело запроса, кодируется в application/json.
	JSON any
	// Body готовое тело с собственным ContentType (например, multipart).
	Body        io.Reader
	ContentType string
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Do выполняет вызов и раскладывает поле data ответа в out (если out не nil).
func (g *Gateway) Do(ctx context.Context, call Call, out any) error {
	const op = "gateway.Do"
	req, err := g.newRequest(ctx, call)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := g.doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}

func (g *Gateway) newRequest(ctx context.Context, call Call) (*http.Request, error) {
	u := *g.baseURL
	u.Path = g.baseURL.Path + "/" + strings.TrimLeft(call.Path, "/")
	if len(call.Query) > 0 {
		u.RawQuery = call.Query.Encode()
	}

	var body io.Reader
	contentType := ContentTypeJSON
	switch {
	case call.Body != nil:
		body = call.Body
		if call.ContentType != "" {
			contentType = call.ContentType
		}
	case call.JSON != nil:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(call.JSON); err != nil {
			return nil, err
		}
		body = &buf
	}

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", ContentTypeJSON)
	return req, nil
}

// classify перехватывает результат каждого вызова: уведомляет
// пользователя, завершает сессию на 401 и возвращает *APIError.
func (g *Gateway) classify(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.Do(req)
		if err != nil {
			if errors.Is(err, ErrAuthenticationRequired) || errors.Is(err, ErrCredentialStore) {
				return nil, err
			}
			g.notifier.Notify(notify.Error, MsgNetworkError)
			return nil, &APIError{
				Kind:   ErrNetworkUnreachable,
				Method: req.Method,
				Path:   req.URL.Path,
				Err:    err,
			}
		}

		kind := Classify(resp.StatusCode)
		if kind == nil {
			return resp, nil
		}
		defer resp.Body.Close()

		apiErr := &APIError{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: readMessage(resp.Body),
			Method:  req.Method,
			Path:    req.URL.Path,
		}
		g.log.Warn("backend returned error",
			slog.String("path", req.URL.Path),
			sl.Status(resp.StatusCode),
			slog.String("message", apiErr.Message),
		)

		switch kind {
		case ErrUnauthorized:
			g.expire(req.Context())
		case ErrForbidden:
			g.notifier.Notify(notify.Error, MsgForbidden)
		case ErrNotFound:
			g.notifier.Notify(notify.Error, MsgNotFound)
		case ErrServerFault:
			g.notifier.Notify(notify.Error, MsgServerError)
		default:
			if apiErr.Message != "" {
				g.notifier.Notify(notify.Error, apiErr.Message)
			}
		}
		return nil, apiErr
	})
}

func (g *Gateway) expire(ctx context.Context) {
	g.mu.RLock()
	expirer := g.expirer
	g.mu.RUnlock()

	if expirer != nil {
		expirer.Expire(ctx)
	} else if err := g.store.Clear(ctx); err != nil {
		g.log.Error("failed to clear session", sl.Err(err))
	}

	if g.nav.CurrentView(ctx) != LoginView {
		g.nav.Redirect(ctx, LoginView)
		g.notifier.Notify(notify.Error, MsgSessionExpired)
	}
}

func readMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Message
}

type noNavigation struct{}

func (noNavigation) CurrentView(context.Context) string { return "" }
func (noNavigation) Redirect(context.Context, string)   {}
