// Package auth управляет сессией клиента: начальная загрузка из
// хранилища с проверкой доступности сервера, вход, регистрация, выход,
// истечение сессии по ответу 401 и повторное подключение.
//
// Controller единственный владелец состояния сессии и единственный,
// кто пишет токен и профиль в хранилище. Остальные компоненты читают
// состояние через State и Subscribe.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/lib/jwt"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/models"
	"github.com/magabrotheeeer/medvault/internal/notify"
	"github.com/magabrotheeeer/medvault/internal/session"
)

var (
	// ErrMissingToken ответ входа или регистрации не содержит токена.
	ErrMissingToken = errors.New("no authentication token received")
	// ErrInvalidProfile профиль в ответе не содержит известной роли.
	ErrInvalidProfile = errors.New("user profile has no valid role")
	// ErrInvalidInput данные формы не прошли проверку.
	ErrInvalidInput = errors.New("invalid input")

	ErrResetTokenMissing = errors.New("Invalid or missing token")
	ErrPasswordMismatch  = errors.New("Passwords do not match")
	ErrPasswordTooShort  = errors.New("Password must be at least 8 characters")
)

// Тексты уведомлений.
const (
	MsgLoginSuccess      = "Login successful!"
	MsgLoginFailed       = "Login failed"
	MsgRegisterSuccess   = "Registration successful!"
	MsgRegisterFailed    = "Registration failed"
	MsgLoggedOut         = "Logged out successfully"
	MsgPasswordSet       = "Password set successfully!  Please login."
	MsgPasswordSetFailed = "Failed to set password. Token may be expired."
)

const minPasswordLength = 8

// API эндпоинты аутентификации бэкенда.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	RegisterPatient(ctx context.Context, data models.PatientRegistration) (*models.AuthResponse, error)
	SetPassword(ctx context.Context, req models.SetPasswordRequest) error
}

// Prober проверка доступности бэкенда.
type Prober interface {
	Probe(ctx context.Context, timeout time.Duration) gateway.Connectivity
}

// Store долговременное хранилище сессии.
type Store interface {
	Save(ctx context.Context, rec session.Record) error
	Load(ctx context.Context) (*session.Record, error)
	Clear(ctx context.Context) error
}

// Controller владелец состояния сессии.
type Controller struct {
	api           API
	prober        Prober
	store         Store
	notifier      notify.Notifier
	log           *slog.Logger
	validate      *validator.Validate
	healthTimeout time.Duration

	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
}

// New создаёт контроллер в фазе Bootstrapping. Init нужно вызвать один раз при старте.
func New(api API, prober Prober, store Store, notifier notify.Notifier, log *slog.Logger, healthTimeout time.Duration) *Controller {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Controller{
		api:           api,
		prober:        prober,
		store:         store,
		notifier:      notifier,
		log:           log.With(slog.String("component", "auth")),
		validate:      validator.New(),
		healthTimeout: healthTimeout,
		state:         State{Loading: true},
		subscribers:   make(map[int]func(State)),
	}
}

// State возвращает копию текущего состояния.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Subscribe регистрирует fn, которая вызывается после каждого изменения
// состояния. Возвращает функцию отписки.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) update(mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state.clone()
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Init начальная загрузка: проверка сервера, затем чтение сессии из
// хранилища. Неполная или повреждённая сессия удаляется. Ошибки
// хранилища не фатальны: клиент просто оказывается не вошедшим.
func (c *Controller) Init(ctx context.Context) {
	const op = "auth.Init"
	log := c.log.With(slog.String("op", op))

	c.update(func(s *State) { s.Loading = true })
	c.checkServer(ctx)

	var (
		user *models.UserProfile
		exp  *time.Time
	)
	rec, err := c.store.Load(ctx)
	switch {
	case err == nil:
		user = &rec.User
		exp = expiry(rec.Token)
		log.Info("session restored", slog.String("email", rec.User.Email), slog.String("role", string(rec.User.Role)))
	case errors.Is(err, session.ErrNoSession):
		log.Info("no stored session", sl.Err(err))
	default:
		log.Error("failed to read stored session", sl.Err(err))
	}

	c.update(func(s *State) {
		s.User = user
		s.ExpiresAt = exp
		s.Loading = false
	})
}

// checkServer выполняет проверку доступности и выставляет флаги сервера.
func (c *Controller) checkServer(ctx context.Context) gateway.Connectivity {
	conn := c.prober.Probe(ctx, c.healthTimeout)
	reachable := conn != gateway.Unreachable
	if reachable {
		if conn == gateway.ReachableWithError {
			c.log.Warn("server is available but returned error")
		}
	} else {
		c.log.Error("server is not available")
	}
	c.update(func(s *State) {
		s.ServerConnected = reachable
		s.ServerError = !reachable
	})
	return conn
}

// RetryConnection повторяет проверку сервера по запросу пользователя.
// Если сервер стал доступен, выполняется полная начальная загрузка.
func (c *Controller) RetryConnection(ctx context.Context) {
	c.update(func(s *State) { s.Loading = true })
	if c.checkServer(ctx) != gateway.Unreachable {
		c.Init(ctx)
		return
	}
	c.update(func(s *State) { s.Loading = false })
}

// Login входит по email и паролю и сохраняет сессию.
func (c *Controller) Login(ctx context.Context, creds models.Credentials) (*models.UserProfile, error) {
	const op = "auth.Login"
	if err := c.validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}
	resp, err := c.api.Login(ctx, creds)
	return c.establish(ctx, op, resp, err, MsgLoginSuccess, MsgLoginFailed, "")
}

// Register регистрирует пациента и сразу открывает для него сессию.
// Роль профиля всегда PATIENT, что бы ни вернул сервер.
func (c *Controller) Register(ctx context.Context, data models.PatientRegistration) (*models.UserProfile, error) {
	const op = "auth.Register"
	if err := c.validate.Struct(data); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}
	resp, err := c.api.RegisterPatient(ctx, data)
	return c.establish(ctx, op, resp, err, MsgRegisterSuccess, MsgRegisterFailed, models.RolePatient)
}

func (c *Controller) establish(
	ctx context.Context,
	op string,
	resp *models.AuthResponse,
	err error,
	okMsg, failMsg string,
	forceRole models.Role,
) (*models.UserProfile, error) {
	log := c.log.With(slog.String("op", op))

	if err == nil && (resp == nil || resp.Token == "") {
		err = ErrMissingToken
	}
	if err == nil {
		if forceRole != "" {
			resp.Profile.Role = forceRole
		}
		if !resp.Profile.Role.Valid() {
			err = fmt.Errorf("%w: %q", ErrInvalidProfile, resp.Profile.Role)
		}
	}
	if err != nil {
		log.Error("authentication failed", sl.Err(err))
		msg, ok := gateway.ServerMessage(err)
		if !ok {
			msg = failMsg
		}
		c.notifier.Notify(notify.Error, msg)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := resp.Profile
	if err := c.store.Save(ctx, session.Record{Token: resp.Token, User: profile}); err != nil {
		log.Error("failed to persist session", sl.Err(err))
		c.notifier.Notify(notify.Error, failMsg)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exp := expiry(resp.Token)
	c.update(func(s *State) {
		u := profile
		s.User = &u
		s.ExpiresAt = exp
	})
	log.Info("session established", slog.String("email", profile.Email), slog.String("role", string(profile.Role)))
	c.notifier.Notify(notify.Success, okMsg)

	out := profile
	return &out, nil
}

// Logout завершает сессию. Не может завершиться ошибкой: сбой хранилища
// только логируется, состояние в памяти очищается в любом случае.
func (c *Controller) Logout(ctx context.Context) {
	c.drop(ctx, "auth.Logout")
	c.notifier.Notify(notify.Info, MsgLoggedOut)
}

// Expire завершает сессию после ответа 401. Уведомление показывает шлюз.
func (c *Controller) Expire(ctx context.Context) {
	c.drop(ctx, "auth.Expire")
}

func (c *Controller) drop(ctx context.Context, op string) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error("failed to clear session", slog.String("op", op), sl.Err(err))
	}
	c.update(func(s *State) {
		s.User = nil
		s.ExpiresAt = nil
	})
}

// SetPassword устанавливает пароль по одноразовому токену из письма.
// Сессия при этом не открывается: после успеха пользователь входит сам.
func (c *Controller) SetPassword(ctx context.Context, req models.SetPasswordRequest) error {
	const op = "auth.SetPassword"
	switch {
	case req.Token == "":
		return ErrResetTokenMissing
	case req.Password != req.ConfirmPassword:
		return ErrPasswordMismatch
	case len(req.Password) < minPasswordLength:
		return ErrPasswordTooShort
	}

	if err := c.api.SetPassword(ctx, req); err != nil {
		c.log.Error("set password failed", slog.String("op", op), sl.Err(err))
		if msg, ok := gateway.ServerMessage(err); ok {
			return fmt.Errorf("%s: %s: %w", op, msg, err)
		}
		return fmt.Errorf("%s: %s: %w", op, MsgPasswordSetFailed, err)
	}
	c.notifier.Notify(notify.Success, MsgPasswordSet)
	return nil
}

func expiry(token string) *time.Time {
	if t, ok := jwt.ExpiresAt(token); ok {
		return &t
	}
	return nil
}
