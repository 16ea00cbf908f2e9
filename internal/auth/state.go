package auth

import (
	"time"

	"github.com/magabrotheeeer/medvault/internal/models"
)

// Phase фаза жизненного цикла сессии.
type Phase int

const (
	Bootstrapping Phase = iota
	Authenticated
	Unauthenticated
	// ServerUnreachable перекрывает остальные фазы: пока бэкенд недоступен,
	// приложение показывает только полноэкранную ошибку.
	ServerUnreachable
)

func (p Phase) String() string {
	switch p {
	case Bootstrapping:
		return "bootstrapping"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "server_unreachable"
	}
}

// State снимок состояния сессии. Живёт только в памяти и
// пересчитывается при каждом запуске.
type State struct {
	User            *models.UserProfile `json:"user"`
	Loading         bool                `json:"loading"`
	ServerConnected bool                `json:"serverConnected"`
	ServerError     bool                `json:"serverError"`
	// ExpiresAt срок действия токена, если токен является JWT. Только для показа.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Phase вычисляет фазу из флагов состояния.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return Bootstrapping
	case s.ServerError || !s.ServerConnected:
		return ServerUnreachable
	case s.User != nil:
		return Authenticated
	default:
		return Unauthenticated
	}
}

// IsAuthenticated есть ли пользователь в сессии.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.ExpiresAt != nil {
		t := *s.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}
