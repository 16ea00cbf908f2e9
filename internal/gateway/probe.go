package gateway

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Connectivity результат проверки доступности бэкенда.
type Connectivity int

const (
	// Reachable сервер ответил успешно.
	Reachable Connectivity = iota
	// ReachableWithError сервер ответил, но статусом ошибки.
	ReachableWithError
	// Unreachable ответа не было: сеть, DNS или таймаут.
	Unreachable
)

func (c Connectivity) String() string {
	switch c {
	case Reachable:
		return "reachable"
	case ReachableWithError:
		return "reachable_with_error"
	default:
		return "unreachable"
	}
}

// Probe проверяет доступность бэкенда через эндпоинт здоровья.
// Любой ответ, даже с кодом ошибки, означает, что сервер доступен.
// Probe не показывает уведомлений и не трогает сессию.
func (g *Gateway) Probe(ctx context.Context, timeout time.Duration) Connectivity {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := g.newRequest(ctx, Call{Method: http.MethodGet, Path: PathHealth})
	if err != nil {
		return Unreachable
	}
	resp, err := g.probe.Do(req)
	if err != nil {
		return Unreachable
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return ReachableWithError
	}
	return Reachable
}
