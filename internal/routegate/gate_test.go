package routegate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/models"
)

func userState(role models.Role) auth.State {
	return auth.State{User: &models.UserProfile{ID: 1, Role: role}, ServerConnected: true}
}

func TestDecide(t *testing.T) {
	admins := []models.Role{models.RoleAdmin}
	tests := []struct {
		name    string
		state   auth.State
		allowed []models.Role
		want    Decision
	}{
		{name: "loading without user", state: auth.State{Loading: true}, allowed: admins, want: Decision{Outcome: Wait}},
		{name: "loading with wrong role", state: auth.State{Loading: true, User: &models.UserProfile{Role: models.RoleDoctor}}, allowed: admins, want: Decision{Outcome: Wait}},
		{name: "anonymous", state: auth.State{ServerConnected: true}, allowed: admins, want: Decision{Outcome: RedirectLogin, Target: Login}},
		{name: "anonymous open view", state: auth.State{}, want: Decision{Outcome: RedirectLogin, Target: Login}},
		{name: "doctor on admin view", state: userState(models.RoleDoctor), allowed: admins, want: Decision{Outcome: RedirectDashboard, Target: DoctorDashboard}},
		{name: "patient on admin view", state: userState(models.RolePatient), allowed: admins, want: Decision{Outcome: RedirectDashboard, Target: PatientDashboard}},
		{name: "admin on doctor view", state: userState(models.RoleAdmin), allowed: []models.Role{models.RoleDoctor}, want: Decision{Outcome: RedirectDashboard, Target: AdminDashboard}},
		{name: "admin on admin view", state: userState(models.RoleAdmin), allowed: admins, want: Decision{Outcome: Render}},
		{name: "any role allowed", state: userState(models.RolePatient), want: Decision{Outcome: Render}},
		{name: "one of several", state: userState(models.RoleDoctor), allowed: []models.Role{models.RoleAdmin, models.RoleDoctor}, want: Decision{Outcome: Render}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.state, tt.allowed)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Decide(tt.state, tt.allowed), "decision must be idempotent")
		})
	}
}

func TestDashboardFor(t *testing.T) {
	assert.Equal(t, AdminDashboard, DashboardFor(models.RoleAdmin))
	assert.Equal(t, DoctorDashboard, DashboardFor(models.RoleDoctor))
	assert.Equal(t, PatientDashboard, DashboardFor(models.RolePatient))
	assert.Equal(t, PatientDashboard, DashboardFor(""))
}
