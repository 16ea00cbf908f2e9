package routegate

import "github.com/magabrotheeeer/medvault/internal/models"

// Маршруты представлений портала.
const (
	Login       = "/login"
	Register    = "/register"
	SetPassword = "/set-password"
	Logout      = "/logout"
	Retry       = "/retry"

	AdminDashboard    = "/admin/dashboard"
	AdminCreateDoctor = "/admin/create-doctor"
	AdminDoctorsList  = "/admin/doctors"

	PatientDashboard       = "/patient/dashboard"
	PatientAppointments    = "/patient/appointments"
	PatientBookAppointment = "/patient/book-appointment"
	PatientRecords         = "/patient/records"
	PatientUploadRecord    = "/patient/upload-record"
	PatientNotifications   = "/patient/notifications"
	PatientFeedback        = "/patient/feedback"
	PatientProfile         = "/patient/profile"

	DoctorDashboard    = "/doctor/dashboard"
	DoctorAppointments = "/doctor/appointments"
	DoctorProfile      = "/doctor/profile"
)

// DashboardFor возвращает панель, принадлежащую роли. Неизвестная роль
// получает панель пациента.
func DashboardFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminDashboard
	case models.RoleDoctor:
		return DoctorDashboard
	default:
		return PatientDashboard
	}
}
