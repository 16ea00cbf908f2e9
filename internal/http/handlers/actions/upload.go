package actions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/medvault/internal/api"
	"github.com/magabrotheeeer/medvault/internal/http/response"
	"github.com/magabrotheeeer/medvault/internal/lib/sl"
	"github.com/magabrotheeeer/medvault/internal/models"
)

// Uploader загрузка медицинского документа в бэкенд.
type Uploader interface {
	Create(ctx context.Context, up models.RecordUpload) (models.Resource, error)
}

// Upload обработчик формы загрузки документа (multipart/form-data,
// поле file и метаданные title, description, recordType, recordDate).
type Upload struct {
	log      *slog.Logger
	records  Uploader
	validate *validator.Validate
}

func NewUpload(log *slog.Logger, records Uploader) *Upload {
	return &Upload{log: log, records: records, validate: validator.New()}
}

func (h *Upload) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.actions.Upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, api.FileSizeLimit+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(w, r, api.ErrFileTooLarge)
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("file is missing", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("field file is a required field"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, api.FileSizeLimit+1))
	if err != nil {
		log.Error("failed to read file", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read file"))
		return
	}

	up := models.RecordUpload{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		RecordType:  r.FormValue("recordType"),
		RecordDate:  r.FormValue("recordDate"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	if err := h.validate.Struct(up); err != nil {
		log.Error("validation failed", sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	if err := api.CheckFile(len(content), up.ContentType); err != nil {
		log.Error("file rejected", sl.Err(err), slog.String("content_type", up.ContentType))
		response.Fail(w, r, err)
		return
	}

	res, err := h.records.Create(r.Context(), up)
	if err != nil {
		log.Error("failed to upload record", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("record uploaded", slog.String("file", up.FileName), slog.Int("size", len(content)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(res))
}
