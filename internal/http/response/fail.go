package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/medvault/internal/api"
	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/http/middlewarectx"
)

// ErrInvalidParam некорректный параметр маршрута.
var ErrInvalidParam = errors.New("invalid route parameter")

// Fail отвечает на неуспешный вызов. Если шлюз во время вызова запросил
// перенаправление (сессия истекла), выполняется оно.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if target, ok := middlewarectx.RedirectTarget(r.Context()); ok {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ValidationError(verrs))
		return
	}

	status, msg := StatusFor(err)
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// StatusFor сопоставляет ошибку вызова HTTP-статусу ответа портала и
// тексту для пользователя.
func StatusFor(err error) (int, string) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiStatus(apiErr)
	}
	switch {
	case errors.Is(err, ErrInvalidParam):
		return http.StatusBadRequest, ErrInvalidParam.Error()
	case errors.Is(err, gateway.ErrAuthenticationRequired):
		return http.StatusUnauthorized, gateway.ErrAuthenticationRequired.Error()
	case errors.Is(err, auth.ErrResetTokenMissing),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusUnprocessableEntity, rootMessage(err)
	case errors.Is(err, auth.ErrInvalidInput):
		return http.StatusUnprocessableEntity, auth.ErrInvalidInput.Error()
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusBadGateway, auth.ErrMissingToken.Error()
	case errors.Is(err, auth.ErrInvalidProfile):
		return http.StatusBadGateway, auth.ErrInvalidProfile.Error()
	case errors.Is(err, api.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, api.ErrFileTooLarge.Error()
	case errors.Is(err, api.ErrFileTypeInvalid):
		return http.StatusUnsupportedMediaType, api.ErrFileTypeInvalid.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func apiStatus(e *gateway.APIError) (int, string) {
	switch {
	case errors.Is(e, gateway.ErrUnauthorized):
		return http.StatusUnauthorized, gateway.MsgSessionExpired
	case errors.Is(e, gateway.ErrForbidden):
		return http.StatusForbidden, gateway.MsgForbidden
	case errors.Is(e, gateway.ErrNotFound):
		return http.StatusNotFound, gateway.MsgNotFound
	case errors.Is(e, gateway.ErrServerFault):
		return http.StatusBadGateway, gateway.MsgServerError
	case errors.Is(e, gateway.ErrNetworkUnreachable):
		return http.StatusServiceUnavailable, gateway.MsgNetworkError
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError {
		return e.Status, msg
	}
	return http.StatusBadRequest, msg
}

// rootMessage текст самой глубокой ошибки цепочки.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
