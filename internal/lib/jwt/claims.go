// Package jwt извлекает сведения из токена сессии без проверки подписи.
//
// Клиент не знает ключа бэкенда и не может проверить токен; проверка остаётся
// дело сервера. Здесь токен только читается, чтобы показать
// пользователю, когда истечёт сессия.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims поля токена, которые интересны клиенту.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Inspect разбирает токен без проверки подписи.
func Inspect(token string) (*Claims, error) {
	const op = "jwt.Inspect"
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &claims, nil
}

// ExpiresAt возвращает время истечения токена. ok=false, если токен
// не JWT или в нём нет exp.
func ExpiresAt(token string) (t time.Time, ok bool) {
	claims, err := Inspect(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
