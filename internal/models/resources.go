package models

import "encoding/json"

// Статусы записи на приём.
const (
	AppointmentPending   = "PENDING"
	AppointmentApproved  = "APPROVED"
	AppointmentRejected  = "REJECTED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

// Типы медицинских документов.
const (
	RecordPrescription = "PRESCRIPTION"
	RecordTestReport   = "TEST_REPORT"
	RecordDiagnosis    = "DIAGNOSIS"
	RecordImaging      = "IMAGING"
	RecordVaccination  = "VACCINATION"
	RecordOther        = "OTHER"
)

// Типы уведомлений.
const (
	NotificationAppointment  = "APPOINTMENT"
	NotificationPrescription = "PRESCRIPTION"
	NotificationCheckup      = "CHECKUP"
	NotificationGeneral      = "GENERAL"
)

// Resource непрозрачный ресурс бэкенда. Клиент не интерпретирует его
// содержимое и передаёт представлениям как есть.
type Resource = json.RawMessage

// CreateDoctorRequest форма создания врача администратором.
type CreateDoctorRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty"`
	Specialization  string `json:"specialization" validate:"required"`
	Qualification   string `json:"qualification,omitempty"`
	ExperienceYears int    `json:"experienceYears,omitempty" validate:"gte=0"`
	ConsultationFee int    `json:"consultationFee,omitempty" validate:"gte=0"`
}

// BookAppointmentRequest форма записи на приём.
type BookAppointmentRequest struct {
	DoctorID        int64  `json:"doctorId" validate:"required"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	Reason          string `json:"reason" validate:"required"`
	Symptoms        string `json:"symptoms,omitempty"`
}

// AppointmentStatusUpdate изменение статуса приёма врачом.
type AppointmentStatusUpdate struct {
	Status          string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED COMPLETED CANCELLED"`
	DoctorNotes     string `json:"doctorNotes,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// FeedbackRequest отзыв пациента о приёме.
type FeedbackRequest struct {
	AppointmentID int64  `json:"appointmentId" validate:"required"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment,omitempty"`
}

// RecordUpload метаданные загружаемого медицинского документа.
type RecordUpload struct {
	Title       string `validate:"required"`
	Description string
	RecordType  string `validate:"required,oneof=PRESCRIPTION TEST_REPORT DIAGNOSIS IMAGING VACCINATION OTHER"`
	RecordDate  string `validate:"omitempty,datetime=2006-01-02"`
	FileName    string `validate:"required"`
	ContentType string `validate:"required"`
	Content     []byte
}
