package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/medvault/internal/lib/sl"
)

// Публичные эндпоинты, доступные без токена.
const (
	PathLogin       = "/auth/login"
	PathRegister    = "/auth/register"
	PathSetPassword = "/auth/set-password"
	PathHealth      = "/auth/health"
)

var publicEndpoints = []string{PathLogin, PathRegister, PathSetPassword, PathHealth}

// IsPublic сообщает, доступен ли путь без токена.
func IsPublic(path string) bool {
	for _, p := range publicEndpoints {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// HeaderRequestID заголовок с идентификатором исходящего запроса.
const HeaderRequestID = "X-Request-ID"

// CredentialSource отдаёт текущий токен из хранилища сессии.
type CredentialSource interface {
	Token(ctx context.Context) (string, bool, error)
}

// Authorize блокирует вызовы защищённых эндпоинтов без токена и
// подставляет Bearer-токен во все остальные.
func Authorize(creds CredentialSource, log *slog.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			const op = "gateway.Authorize"
			token, ok, err := creds.Token(req.Context())
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %w", op, ErrCredentialStore, err)
			}

			if !ok && !IsPublic(req.URL.Path) {
				log.Warn("no authentication token, request blocked",
					slog.String("op", op),
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
				)
				return nil, ErrAuthenticationRequired
			}

			if ok {
				req = req.Clone(req.Context())
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next.Do(req)
		})
	}
}

// RequestID проставляет X-Request-ID, если его ещё нет.
func RequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(HeaderRequestID) == "" {
				req = req.Clone(req.Context())
				req.Header.Set(HeaderRequestID, uuid.NewString())
			}
			return next.Do(req)
		})
	}
}

// Logging пишет строку лога на каждый вызов.
func Logging(log *slog.Logger) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.Do(req)
			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("request_id", req.Header.Get(HeaderRequestID)),
				slog.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				log.Debug("backend call failed", append(attrs, sl.Err(err))...)
				return resp, err
			}
			log.Debug("backend call", append(attrs, sl.Status(resp.StatusCode))...)
			return resp, err
		})
	}
}

// RateLimit ограничивает частоту исходящих запросов. Запрос ждёт
// свободный токен, пока не отменён его контекст.
func RateLimit(limiter *rate.Limiter) Middleware {
	if limiter == nil {
		return nil
	}
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next.Do(req)
		})
	}
}
