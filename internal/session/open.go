package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/medvault/internal/config"
)

// Open создаёт бэкенд по настройкам cfg.Driver.
func Open(ctx context.Context, cfg config.SessionStore, log *slog.Logger) (KV, error) {
	const op = "session.Open"
	switch cfg.Driver {
	case config.StoreMemory:
		return NewMemory(), nil
	case config.StoreFile, "":
		return OpenFile(cfg.Path, log)
	case config.StoreSQLite:
		return OpenSQLite(cfg.Path)
	case config.StoreRedis:
		return OpenRedis(ctx, cfg.RedisConnection, cfg.Namespace)
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}
