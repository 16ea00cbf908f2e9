// Package models содержит доменные модели клиента MedVault: профиль
// пользователя, роли и формы аутентификации. Профиль хранится в сессии
// и передаётся остальным компонентам только для чтения.
package models

import (
	"encoding/json"
	"fmt"
)

// Role роль пользователя портала.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// UserProfile представляет аутентифицированного пользователя.
// Поля, специфичные для роли (специализация врача, группа крови пациента
// и т.п.), сохраняются в Extra без изменений.
type UserProfile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownProfileFields = map[string]struct{}{
	"id": {}, "email": {}, "firstName": {}, "lastName": {}, "role": {},
}

// FullName возвращает имя и фамилию через пробел.
func (u UserProfile) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UnmarshalJSON разбирает профиль, откладывая неизвестные поля в Extra.
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownProfileFields {
		delete(raw, k)
	}
	if len(raw) == 0 {
		raw = nil
	}
	*u = UserProfile(p)
	u.Extra = raw
	return nil
}

// MarshalJSON сериализует профиль вместе с полями из Extra.
func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+len(knownProfileFields))
	for k, v := range u.Extra {
		if _, known := knownProfileFields[k]; known {
			continue
		}
		out[k] = v
	}
	out["id"] = u.ID
	out["email"] = u.Email
	out["firstName"] = u.FirstName
	out["lastName"] = u.LastName
	out["role"] = u.Role
	return json.Marshal(out)
}

// ParseProfile разбирает сериализованный профиль и проверяет роль.
func ParseProfile(data []byte) (*UserProfile, error) {
	const op = "models.ParseProfile"
	var u UserProfile
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !u.Role.Valid() {
		return nil, fmt.Errorf("%s: unknown role %q", op, u.Role)
	}
	return &u, nil
}
