// Package routegate решает, можно ли показать представление текущему
// пользователю. Решение является чистой функцией состояния сессии и набора
// разрешённых ролей; сетевых вызовов здесь нет.
package routegate

import (
	"slices"

	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// Outcome исход проверки доступа.
type Outcome int

const (
	// Wait сессия ещё загружается, решения нет.
	Wait Outcome = iota
	// RedirectLogin пользователь не вошёл.
	RedirectLogin
	// RedirectDashboard роль не допущена, пользователь уходит на свою панель.
	RedirectDashboard
	// Render представление можно показать.
	Render
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "render"
	}
}

// Decision результат Decide. Target заполнен только для перенаправлений.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Decide проверяет доступ к представлению с набором ролей allowed.
// Пустой allowed пускает любого вошедшего пользователя.
func Decide(state auth.State, allowed []models.Role) Decision {
	switch {
	case state.Loading:
		return Decision{Outcome: Wait}
	case state.User == nil:
		return Decision{Outcome: RedirectLogin, Target: Login}
	case len(allowed) > 0 && !slices.Contains(allowed, state.User.Role):
		return Decision{Outcome: RedirectDashboard, Target: DashboardFor(state.User.Role)}
	default:
		return Decision{Outcome: Render}
	}
}
