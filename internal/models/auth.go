package models

// Credentials данные формы входа.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PatientRegistration данные формы регистрации пациента.
type PatientRegistration struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	Phone            string `json:"phone,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender           string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Address          string `json:"address,omitempty"`
	BloodGroup       string `json:"bloodGroup,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
}

// SetPasswordRequest установка пароля по одноразовому токену из письма.
type SetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// AuthResponse полезная нагрузка ответа login/register: токен и профиль.
type AuthResponse struct {
	Token   string
	Profile UserProfile
}
