package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type respBody struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) respBody {
	t.Helper()
	var b respBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestSubmit(t *testing.T) {
	var got models.BookAppointmentRequest
	h := Submit(newNoopLogger(), "test.book", http.StatusCreated,
		func(_ context.Context, _ *http.Request, form models.BookAppointmentRequest) (models.Resource, error) {
			got = form
			return models.Resource(`{"id":1,"status":"PENDING"}`), nil
		})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"valid", `{"doctorId":3,"appointmentDate":"2026-11-02T10:00","reason":"checkup"}`, http.StatusCreated, ""},
		{"invalid json", `not json`, http.StatusBadRequest, "invalid request body"},
		{"missing reason", `{"doctorId":3,"appointmentDate":"2026-11-02T10:00"}`, http.StatusUnprocessableEntity, "field Reason is a required field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/patient/book-appointment", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
	assert.Equal(t, int64(3), got.DoctorID)
}

func TestSubmit_BackendError(t *testing.T) {
	h := Submit(newNoopLogger(), "test.feedback", http.StatusOK,
		func(context.Context, *http.Request, models.FeedbackRequest) (models.Resource, error) {
			return nil, &gateway.APIError{Kind: gateway.ErrUnclassified, Status: 400, Message: "Feedback already exists"}
		})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/patient/feedback", bytes.NewBufferString(`{"appointmentId":1,"rating":5}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Feedback already exists", decode(t, rec).Error)
}

func TestCommand_ByID(t *testing.T) {
	var got int64
	r := chi.NewRouter()
	r.Delete("/records/{id}", ByID(newNoopLogger(), "test.delete", func(_ context.Context, id int64) error {
		got = id
		return nil
	}).ServeHTTP)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/records/9", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), got)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/records/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommand_All(t *testing.T) {
	called := false
	h := All(newNoopLogger(), "test.mark-all", func(context.Context) error {
		called = true
		return nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/patient/notifications/read", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "OK", decode(t, rec).Status)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) Create(ctx context.Context, up models.RecordUpload) (models.Resource, error) {
	args := m.Called(ctx, up)
	res, _ := args.Get(0).(models.Resource)
	return res, args.Error(1)
}

func multipartBody(t *testing.T, fields map[string]string, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	fields := map[string]string{"title": "X-ray", "recordType": models.RecordImaging}

	t.Run("valid", func(t *testing.T) {
		records := new(UploaderMock)
		records.On("Create", mock.Anything, mock.MatchedBy(func(up models.RecordUpload) bool {
			return up.Title == "X-ray" && up.FileName == "chest.png" && up.ContentType == "image/png" && string(up.Content) == "PNG"
		})).Return(models.Resource(`{"id":5}`), nil).Once()

		body, ct := multipartBody(t, fields, "chest.png", "image/png", []byte("PNG"))
		req := httptest.NewRequest(http.MethodPost, "/patient/upload-record", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		NewUpload(newNoopLogger(), records).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"id":5}`, string(decode(t, rec).Data))
		records.AssertExpectations(t)
	})

	t.Run("wrong type", func(t *testing.T) {
		records := new(UploaderMock)
		body, ct := multipartBody(t, fields, "notes.txt", "text/plain", []byte("hi"))
		req := httptest.NewRequest(http.MethodPost, "/patient/upload-record", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		NewUpload(newNoopLogger(), records).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		records := new(UploaderMock)
		body, ct := multipartBody(t, fields, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/patient/upload-record", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		NewUpload(newNoopLogger(), records).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "field file is a required field", decode(t, rec).Error)
	})
}
