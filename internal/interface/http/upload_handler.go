package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/pkg/response"
)

type Uploader interface {
	Upload(ctx context.Context, ownerID, folder string, r io.Reader) (*application.UploadResult, error)
}

type UploadHandler struct {
	Uploads  Uploader
	MaxBytes int64
	Logger   *logrus.Logger
}

func NewUploadHandler(uploads Uploader, maxBytes int64, logger *logrus.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadHandler{Uploads: uploads, MaxBytes: maxBytes, Logger: logger}
}

// Upload POST /admin/upload?folder=projects|certificates|avatars|documents
// with a multipart "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	folder := c.Query("folder")
	if !application.AllowedFolder(folder) {
		response.Error[any](c, http.StatusBadRequest, application.ErrInvalidFolder.Error(),
			map[string]string{"folder": "must be one of: projects, certificates, avatars, documents"})
		return
	}
	// multipart framing on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+1<<20)
	fh, err := c.FormFile("file")
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		fail(c, h.Logger, application.ErrFileTooLarge, "upload", "file")
		return
	}
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "is required"})
		return
	}
	if fh.Size > h.MaxBytes {
		fail(c, h.Logger, application.ErrFileTooLarge, "upload", "file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err, "upload", "file")
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.Uploads.Upload(c.Request.Context(), owner, folder, f)
	if err != nil {
		fail(c, h.Logger, err, "upload", "file")
		return
	}
	response.Success(c, http.StatusCreated, res, "file uploaded", nil)
}
