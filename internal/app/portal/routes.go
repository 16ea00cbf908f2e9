// Package portal собирает HTTP-портал клиента MedVault: маршруты
// представлений, шлюз бэкенда, хранилище и контроллер сессии.
package portal

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрирует описание API для /docs
	_ "github.com/magabrotheeeer/medvault/docs"
	"github.com/magabrotheeeer/medvault/internal/api"
	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/actions"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/auth/setpassword"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/session"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/toasts"
	"github.com/magabrotheeeer/medvault/internal/http/handlers/views"
	"github.com/magabrotheeeer/medvault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/medvault/internal/models"
	"github.com/magabrotheeeer/medvault/internal/routegate"
)

// Controller контроллер сессии с точки зрения портала.
type Controller interface {
	routegate.StateSource
	login.Service
	register.Service
	setpassword.Service
	Logout(ctx context.Context)
	RetryConnection(ctx context.Context)
}

// Deps зависимости маршрутов.
type Deps struct {
	Ctrl    Controller
	API     *api.Client
	Toasts  toasts.Source
	Metrics http.Handler
}

// RegisterRoutes регистрирует все маршруты портала.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Navigation,
	)

	sess := session.New(logger, d.Ctrl)
	c := d.API

	// Служебные маршруты работают и при недоступном сервере
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
	r.Get("/toasts", toasts.New(d.Toasts))
	r.Get("/session", sess.State)
	r.Post(routegate.Retry, sess.Retry)
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(routegate.Connectivity(d.Ctrl, routegate.Retry))

		// Открытые формы
		r.Get(routegate.Login, sess.Public("login"))
		r.Post(routegate.Login, login.New(logger, d.Ctrl).ServeHTTP)
		r.Get(routegate.Register, sess.Public("register"))
		r.Post(routegate.Register, register.New(logger, d.Ctrl).ServeHTTP)
		r.Get(routegate.SetPassword, sess.Public("set-password"))
		r.Post(routegate.SetPassword, setpassword.New(logger, d.Ctrl).ServeHTTP)
		r.Post(routegate.SetPassword+"/strength", setpassword.Strength)
		r.Post(routegate.Logout, sess.Logout)

		r.Group(func(r chi.Router) {
			r.Use(routegate.Require(d.Ctrl, logger, models.RoleAdmin))
			r.Get(routegate.AdminDashboard, sess.State)
			r.Get(routegate.AdminDoctorsList, views.Fetch(logger, "views.admin.doctors", views.Static(c.Admin.ListDoctors)).ServeHTTP)
			r.Post(routegate.AdminCreateDoctor, actions.Submit(logger, "actions.admin.createDoctor", http.StatusCreated,
				func(ctx context.Context, _ *http.Request, form models.CreateDoctorRequest) (models.Resource, error) {
					return c.Admin.CreateDoctor(ctx, form)
				}).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(routegate.Require(d.Ctrl, logger, models.RolePatient))
			r.Get(routegate.PatientDashboard, views.Pair(logger, "views.patient.dashboard",
				views.Source{Name: "dashboard", Load: views.Static(c.Patient.Dashboard)},
				views.Source{Name: "appointments", Load: views.Static(c.Appointments.Mine)},
			).ServeHTTP)
			r.Get(routegate.PatientProfile, views.Fetch(logger, "views.patient.profile", views.Static(c.Patient.Profile)).ServeHTTP)

			r.Get(routegate.PatientAppointments, views.Fetch(logger, "views.patient.appointments", views.Static(c.Appointments.Mine)).ServeHTTP)
			r.Get(routegate.PatientAppointments+"/{id}", views.Fetch(logger, "views.patient.appointment", views.ByID("id", c.Appointments.ByID)).ServeHTTP)
			r.Get(routegate.PatientBookAppointment, views.Fetch(logger, "views.patient.doctors", views.Static(c.Doctor.ListActive)).ServeHTTP)
			r.Post(routegate.PatientBookAppointment, actions.Submit(logger, "actions.patient.book", http.StatusCreated,
				func(ctx context.Context, _ *http.Request, form models.BookAppointmentRequest) (models.Resource, error) {
					return c.Appointments.Book(ctx, form)
				}).ServeHTTP)
			r.Get("/patient/doctors/{id}", views.Fetch(logger, "views.patient.doctor", views.ByID("id", c.Doctor.ByID)).ServeHTTP)
			r.Get("/patient/doctors/{id}/feedbacks", views.Pair(logger, "views.patient.doctorFeedbacks",
				views.Source{Name: "feedbacks", Load: views.ByID("id", c.Feedbacks.ByDoctor)},
				views.Source{Name: "rating", Load: views.ByID("id", c.Feedbacks.DoctorRating)},
			).ServeHTTP)

			r.Get(routegate.PatientRecords, views.Fetch(logger, "views.patient.records", views.Static(c.Records.Mine)).ServeHTTP)
			r.Get(routegate.PatientRecords+"/type/{type}", views.Fetch(logger, "views.patient.recordsByType",
				func(ctx context.Context, r *http.Request) (models.Resource, error) {
					return c.Records.ByType(ctx, chi.URLParam(r, "type"))
				}).ServeHTTP)
			r.Get(routegate.PatientRecords+"/{id}", views.Fetch(logger, "views.patient.record", views.ByID("id", c.Records.ByID)).ServeHTTP)
			r.Delete(routegate.PatientRecords+"/{id}", actions.ByID(logger, "actions.patient.deleteRecord", c.Records.Delete).ServeHTTP)
			r.Post(routegate.PatientUploadRecord, actions.NewUpload(logger, c.Records).ServeHTTP)

			r.Get(routegate.PatientNotifications, views.Fetch(logger, "views.patient.notifications", views.Static(c.Notifications.All)).ServeHTTP)
			r.Get(routegate.PatientNotifications+"/unread", views.Fetch(logger, "views.patient.unread", views.Static(c.Notifications.Unread)).ServeHTTP)
			r.Put(routegate.PatientNotifications+"/read-all", actions.All(logger, "actions.patient.markAllRead", c.Notifications.MarkAllRead).ServeHTTP)
			r.Put(routegate.PatientNotifications+"/{id}/read", actions.ByID(logger, "actions.patient.markRead", c.Notifications.MarkRead).ServeHTTP)

			r.Get(routegate.PatientFeedback, views.Pair(logger, "views.patient.feedback",
				views.Source{Name: "appointments", Load: views.Static(c.Appointments.Mine)},
				views.Source{Name: "feedbacks", Load: views.Static(c.Feedbacks.Mine)},
			).ServeHTTP)
			r.Post(routegate.PatientFeedback, actions.Submit(logger, "actions.patient.feedback", http.StatusCreated,
				func(ctx context.Context, _ *http.Request, form models.FeedbackRequest) (models.Resource, error) {
					return c.Feedbacks.Create(ctx, form)
				}).ServeHTTP)
			r.Put(routegate.PatientFeedback+"/{id}", actions.Submit(logger, "actions.patient.updateFeedback", http.StatusOK,
				func(ctx context.Context, r *http.Request, form models.FeedbackRequest) (models.Resource, error) {
					id, err := actions.PathID(r)
					if err != nil {
						return nil, err
					}
					return c.Feedbacks.Update(ctx, id, form)
				}).ServeHTTP)
			r.Delete(routegate.PatientFeedback+"/{id}", actions.ByID(logger, "actions.patient.deleteFeedback", c.Feedbacks.Delete).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(routegate.Require(d.Ctrl, logger, models.RoleDoctor))
			r.Get(routegate.DoctorDashboard, views.Pair(logger, "views.doctor.dashboard",
				views.Source{Name: "dashboard", Load: views.Static(c.Doctor.Dashboard)},
				views.Source{Name: "appointments", Load: views.Static(c.Appointments.Mine)},
			).ServeHTTP)
			r.Get(routegate.DoctorAppointments, views.Fetch(logger, "views.doctor.appointments", views.Static(c.Appointments.Mine)).ServeHTTP)
			r.Get(routegate.DoctorAppointments+"/{id}", views.Fetch(logger, "views.doctor.appointment", views.ByID("id", c.Appointments.ByID)).ServeHTTP)
			r.Put(routegate.DoctorAppointments+"/{id}/status", actions.Submit(logger, "actions.doctor.updateStatus", http.StatusOK,
				func(ctx context.Context, r *http.Request, form models.AppointmentStatusUpdate) (models.Resource, error) {
					id, err := actions.PathID(r)
					if err != nil {
						return nil, err
					}
					return c.Appointments.UpdateStatus(ctx, id, form)
				}).ServeHTTP)
			r.Get(routegate.DoctorProfile, views.Pair(logger, "views.doctor.profile",
				views.Source{Name: "stats", Load: ownDoctor(d.Ctrl, c.Feedbacks.DoctorStats)},
				views.Source{Name: "feedbacks", Load: ownDoctor(d.Ctrl, c.Feedbacks.ByDoctor)},
			).ServeHTTP)
		})

		r.Get("/", redirectToLogin)
	})

	// Остальные адреса ведут на вход
	r.NotFound(redirectToLogin)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routegate.Login, http.StatusFound)
}

// ownDoctor загружает ресурс врача, вошедшего в сессию.
func ownDoctor(src routegate.StateSource, load func(ctx context.Context, id int64) (models.Resource, error)) views.Loader {
	return func(ctx context.Context, _ *http.Request) (models.Resource, error) {
		user := src.State().User
		if user == nil {
			return nil, gateway.ErrAuthenticationRequired
		}
		return load(ctx, user.ID)
	}
}
