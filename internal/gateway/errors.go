package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Классы ошибок шлюза. Конкретная ошибка вызова имеет тип *APIError и
// разворачивается в один из этих классов через errors.Is.
var (
	// ErrAuthenticationRequired вызов защищённого эндпоинта заблокирован
	// локально: токена нет, запрос в сеть не уходил.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrCredentialStore токен не удалось прочитать из хранилища сессии.
	// Запрос в сеть не уходил.
	ErrCredentialStore = errors.New("credential store unavailable")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrServerFault            = errors.New("server fault")
	ErrUnclassified           = errors.New("unclassified http error")
	// ErrNetworkUnreachable ответа от сервера не было: сеть, DNS, таймаут.
	ErrNetworkUnreachable = errors.New("network unreachable")
)

// APIError ошибка вызова бэкенда после классификации.
type APIError struct {
	Kind    error
	Status  int    // 0, если ответа не было
	Message string // сообщение сервера, если оно было
	Method  string
	Path    string
	Err     error // исходная транспортная ошибка
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v: %v", e.Method, e.Path, e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %v: %s", e.Method, e.Path, e.Status, e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s %s: %d %v", e.Method, e.Path, e.Status, e.Kind)
	}
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Classify сопоставляет HTTP-статус классу ошибки. Для 2xx и 3xx возвращает nil.
func Classify(status int) error {
	switch {
	case status < http.StatusBadRequest:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= http.StatusInternalServerError:
		return ErrServerFault
	default:
		return ErrUnclassified
	}
}

// ServerMessage возвращает сообщение сервера из ошибки err, если оно есть.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
