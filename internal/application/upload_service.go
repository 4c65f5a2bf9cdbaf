package application

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/infrastructure/storage"
	"github.com/oksasatya/portofolio/internal/metrics"
)

var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

const (
	folderProjects     = "projects"
	folderAvatars      = "avatars"
	folderCertificates = "certificates"
	folderDocuments    = "documents"
)

// uploadFolders maps each folder to the content types it accepts.
var uploadFolders = map[string][]string{
	folderProjects:     imageTypes,
	folderAvatars:      imageTypes,
	folderCertificates: append(append([]string{}, imageTypes...), "application/pdf"),
	folderDocuments:    {"application/pdf"},
}

type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type UploadService struct {
	Objects  storage.ObjectStore
	MaxBytes int64
	Logger   *logrus.Logger
	audit    auditor
}

func NewUploadService(objects storage.ObjectStore, maxBytes int64, audit repo.AuditRepository,
	rec metrics.WriteRecorder, logger *logrus.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UploadService{
		Objects:  objects,
		MaxBytes: maxBytes,
		Logger:   logger,
		audit:    auditor{repo: audit, metrics: rec, logger: logger},
	}
}

// Upload sniffs r, checks it against the folder's allowed types and stores
// it under <folder>/<ownerID>/<uuid><ext>. The extension comes from the
// detected type, never from the client's file name.
func (s *UploadService) Upload(ctx context.Context, ownerID, folder string, r io.Reader) (res *UploadResult, err error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	allowed, ok := uploadFolders[folder]
	if !ok {
		return nil, ErrInvalidFolder
	}
	body, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.MaxBytes {
		return nil, ErrFileTooLarge
	}
	mt := mimetype.Detect(body)
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, ErrUnsupportedFile
	}

	key := path.Join(folder, ownerID, uuid.NewString()+strings.ToLower(mt.Extension()))
	defer func() { s.audit.write(ctx, ownerID, "upload", opCreate, key, err) }()
	url, err := s.Objects.Put(ctx, key, mt.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &UploadResult{URL: url, Path: key}, nil
}

// AllowedFolder reports whether folder accepts uploads.
func AllowedFolder(folder string) bool {
	_, ok := uploadFolders[folder]
	return ok
}
