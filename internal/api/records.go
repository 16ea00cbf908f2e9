package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"

	"github.com/magabrotheeeer/medvault/internal/gateway"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// FileSizeLimit максимальный размер загружаемого документа.
const FileSizeLimit = 10 << 20

// AllowedFileTypes допустимые MIME-типы документов.
var AllowedFileTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var (
	ErrFileTooLarge    = errors.New("file size must be less than 10MB")
	ErrFileTypeInvalid = errors.New("invalid file type. Only PDF, JPG, PNG, and DOCX files are allowed")
)

// CheckFile проверяет размер и тип документа до отправки.
func CheckFile(size int, contentType string) error {
	if size > FileSizeLimit {
		return ErrFileTooLarge
	}
	if !slices.Contains(AllowedFileTypes, contentType) {
		return ErrFileTypeInvalid
	}
	return nil
}

// Records эндпоинты медицинских документов.
type Records struct{ c Caller }

// Create POST /medical-records (multipart/form-data).
func (r *Records) Create(ctx context.Context, up models.RecordUpload) (models.Resource, error) {
	return r.upload(ctx, "api.Records.Create", http.MethodPost, "/medical-records", up)
}

// Update PUT /medical-records/{id} (multipart/form-data).
func (r *Records) Update(ctx context.Context, id int64, up models.RecordUpload) (models.Resource, error) {
	return r.upload(ctx, "api.Records.Update", http.MethodPut, fmt.Sprintf("/medical-records/%d", id), up)
}

func (r *Records) upload(ctx context.Context, op, method, path string, up models.RecordUpload) (models.Resource, error) {
	if err := CheckFile(len(up.Content), up.ContentType); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	body, contentType, err := encodeRecord(up)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out models.Resource
	if err := r.c.Do(ctx, gateway.Call{Method: method, Path: path, Body: body, ContentType: contentType}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeRecord(up models.RecordUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", up.Title},
		{"description", up.Description},
		{"recordType", up.RecordType},
		{"recordDate", up.RecordDate},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.FileName))
	h.Set("Content-Type", up.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(up.Content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (r *Records) Mine(ctx context.Context) (models.Resource, error) {
	return get(ctx, r.c, "/medical-records")
}

func (r *Records) ByType(ctx context.Context, recordType string) (models.Resource, error) {
	return get(ctx, r.c, "/medical-records/type/"+recordType)
}

func (r *Records) ByID(ctx context.Context, id int64) (models.Resource, error) {
	return get(ctx, r.c, fmt.Sprintf("/medical-records/%d", id))
}

func (r *Records) Delete(ctx context.Context, id int64) error {
	return r.c.Do(ctx, gateway.Call{Method: http.MethodDelete, Path: fmt.Sprintf("/medical-records/%d", id)}, nil)
}
