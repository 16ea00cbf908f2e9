package setpassword

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/medvault/internal/auth"
	"github.com/magabrotheeeer/medvault/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SetPassword(ctx context.Context, req models.SetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetPassword_TokenFromQuery(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("SetPassword", mock.Anything, models.SetPasswordRequest{
		Token: "abc", Password: "Str0ngPass!", ConfirmPassword: "Str0ngPass!",
	}).Return(nil).Once()

	body := `{"password":"Str0ngPass!","confirmPassword":"Str0ngPass!"}`
	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set-password?token=abc", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)
	svc.AssertExpectations(t)
}

func TestSetPassword_Mismatch(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("SetPassword", mock.Anything, mock.Anything).Return(auth.ErrPasswordMismatch).Once()

	body := `{"token":"abc","password":"one-password","confirmPassword":"two-password"}`
	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set-password", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")
}

func TestStrength(t *testing.T) {
	rec := httptest.NewRecorder()
	Strength(rec, httptest.NewRequest(http.MethodPost, "/set-password/strength", bytes.NewBufferString(`{"password":"Abcdefg1!"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"strength":100,"label":"Strong"}}`, rec.Body.String())
}
