// Package api содержит типизированные эндпоинты REST-бэкенда MedVault.
// Все вызовы идут через gateway.Gateway; ответы ресурсов передаются
// представлениям как непрозрачный JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// Caller выполняет вызов бэкенда и раскладывает data ответа в out.
type Caller interface {
	Do(ctx context.Context, call gateway.Call, out any) error
}

// Client набор эндпоинтов по разделам.
type Client struct {
	Auth          *Auth
	Admin         *Admin
	Patient       *Patient
	Doctor        *Doctor
	Appointments  *Appointments
	Records       *Records
	Notifications *Notifications
	Feedbacks     *Feedbacks
}

// New создаёт клиент поверх c.
func New(c Caller) *Client {
	return &Client{
		Auth:          &Auth{c: c},
		Admin:         &Admin{c: c},
		Patient:       &Patient{c: c},
		Doctor:        &Doctor{c: c},
		Appointments:  &Appointments{c: c},
		Records:       &Records{c: c},
		Notifications: &Notifications{c: c},
		Feedbacks:     &Feedbacks{c: c},
	}
}

func get(ctx context.Context, c Caller, path string) (models.Resource, error) {
	var out json.RawMessage
	if err := c.Do(ctx, gateway.Call{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func send(ctx context.Context, c Caller, method, path string, body any, query url.Values) (models.Resource, error) {
	var out json.RawMessage
	if err := c.Do(ctx, gateway.Call{Method: method, Path: path, JSON: body, Query: query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Auth эндпоинты аутентификации (публичные).
type Auth struct{ c Caller }

// authPayload тело ответа login/register: токен вместе с полями профиля.
type authPayload struct {
	Token string `json:"token"`
}

func (a *Auth) authenticate(ctx context.Context, op, path string, body any) (*models.AuthResponse, error) {
	var raw json.RawMessage
	if err := a.c.Do(ctx, gateway.Call{Method: http.MethodPost, Path: path, JSON: body}, &raw); err != nil {
		return nil, err
	}
	resp := &models.AuthResponse{}
	if len(raw) == 0 {
		return resp, nil
	}
	var p authPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, &resp.Profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	delete(resp.Profile.Extra, "token")
	resp.Token = p.Token
	return resp, nil
}

// Login POST /auth/login.
func (a *Auth) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return a.authenticate(ctx, "api.Auth.Login", gateway.PathLogin, creds)
}

// RegisterPatient POST /auth/register/patient.
func (a *Auth) RegisterPatient(ctx context.Context, data models.PatientRegistration) (*models.AuthResponse, error) {
	return a.authenticate(ctx, "api.Auth.RegisterPatient", gateway.PathRegister+"/patient", data)
}

// SetPassword POST /auth/set-password.
func (a *Auth) SetPassword(ctx context.Context, req models.SetPasswordRequest) error {
	return a.c.Do(ctx, gateway.Call{Method: http.MethodPost, Path: gateway.PathSetPassword, JSON: req}, nil)
}

// Admin эндпоинты администратора.
type Admin struct{ c Caller }

func (a *Admin) CreateDoctor(ctx context.Context, req models.CreateDoctorRequest) (models.Resource, error) {
	return send(ctx, a.c, http.MethodPost, "/admin/doctors", req, nil)
}

func (a *Admin) ListDoctors(ctx context.Context) (models.Resource, error) {
	return get(ctx, a.c, "/admin/doctors")
}

// Patient эндпоинты пациента.
type Patient struct{ c Caller }

func (p *Patient) Dashboard(ctx context.Context) (models.Resource, error) {
	return get(ctx, p.c, "/patient/dashboard")
}

func (p *Patient) Profile(ctx context.Context) (models.Resource, error) {
	return get(ctx, p.c, "/patient/profile")
}

// Doctor эндпоинты врачей.
type Doctor struct{ c Caller }

func (d *Doctor) ListActive(ctx context.Context) (models.Resource, error) {
	return get(ctx, d.c, "/doctor/all")
}

func (d *Doctor) ByID(ctx context.Context, id int64) (models.Resource, error) {
	return get(ctx, d.c, fmt.Sprintf("/doctor/%d", id))
}

func (d *Doctor) Dashboard(ctx context.Context) (models.Resource, error) {
	return get(ctx, d.c, "/doctor/dashboard")
}

// Appointments эндпоинты записей на приём.
type Appointments struct{ c Caller }

func (a *Appointments) Book(ctx context.Context, req models.BookAppointmentRequest) (models.Resource, error) {
	return send(ctx, a.c, http.MethodPost, "/appointments/book", req, nil)
}

func (a *Appointments) Mine(ctx context.Context) (models.Resource, error) {
	return get(ctx, a.c, "/appointments/my-appointments")
}

func (a *Appointments) ByID(ctx context.Context, id int64) (models.Resource, error) {
	return get(ctx, a.c, fmt.Sprintf("/appointments/%d", id))
}

// UpdateStatus PUT /appointments/{id}/status. Параметры передаются в
// строке запроса; пустые заметки и причина отказа не отправляются.
func (a *Appointments) UpdateStatus(ctx context.Context, id int64, upd models.AppointmentStatusUpdate) (models.Resource, error) {
	q := url.Values{"status": {upd.Status}}
	if upd.DoctorNotes != "" {
		q.Set("doctorNotes", upd.DoctorNotes)
	}
	if upd.RejectionReason != "" {
		q.Set("rejectionReason", upd.RejectionReason)
	}
	return send(ctx, a.c, http.MethodPut, fmt.Sprintf("/appointments/%d/status", id), nil, q)
}

// Notifications эндпоинты уведомлений пользователя.
type Notifications struct{ c Caller }

func (n *Notifications) All(ctx context.Context) (models.Resource, error) {
	return get(ctx, n.c, "/notifications")
}

func (n *Notifications) Unread(ctx context.Context) (models.Resource, error) {
	return get(ctx, n.c, "/notifications/unread")
}

func (n *Notifications) MarkRead(ctx context.Context, id int64) error {
	return n.c.Do(ctx, gateway.Call{Method: http.MethodPut, Path: fmt.Sprintf("/notifications/%d/read", id)}, nil)
}

func (n *Notifications) MarkAllRead(ctx context.Context) error {
	return n.c.Do(ctx, gateway.Call{Method: http.MethodPut, Path: "/notifications/mark-all-read"}, nil)
}

// Feedbacks эндпоинты отзывов.
type Feedbacks struct{ c Caller }

func (f *Feedbacks) Create(ctx context.Context, req models.FeedbackRequest) (models.Resource, error) {
	return send(ctx, f.c, http.MethodPost, "/feedbacks", req, nil)
}

func (f *Feedbacks) ByDoctor(ctx context.Context, doctorID int64) (models.Resource, error) {
	return get(ctx, f.c, fmt.Sprintf("/feedbacks/doctor/%d", doctorID))
}

func (f *Feedbacks) DoctorStats(ctx context.Context, doctorID int64) (models.Resource, error) {
	return get(ctx, f.c, fmt.Sprintf("/feedbacks/doctor/%d/stats", doctorID))
}

func (f *Feedbacks) DoctorRating(ctx context.Context, doctorID int64) (models.Resource, error) {
	return get(ctx, f.c, fmt.Sprintf("/feedbacks/doctor/%d/rating", doctorID))
}

func (f *Feedbacks) Mine(ctx context.Context) (models.Resource, error) {
	return get(ctx, f.c, "/feedbacks/my-feedbacks")
}

func (f *Feedbacks) Update(ctx context.Context, id int64, req models.FeedbackRequest) (models.Resource, error) {
	return send(ctx, f.c, http.MethodPut, fmt.Sprintf("/feedbacks/%d", id), req, nil)
}

func (f *Feedbacks) Delete(ctx context.Context, id int64) error {
	return f.c.Do(ctx, gateway.Call{Method: http.MethodDelete, Path: fmt.Sprintf("/feedbacks/%d", id)}, nil)
}
