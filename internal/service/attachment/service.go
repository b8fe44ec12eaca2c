package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"freight-cost-approval/internal/config"
	"freight-cost-approval/internal/domain"
)

var errStoreNotConfigured = errors.New("object storage is not configured")

// Service is the blob store for cost request attachments.
type Service interface {
	Upload(ctx context.Context, upload *domain.AttachmentUpload) (*domain.Attachment, error)
	Remove(ctx context.Context, attachment *domain.Attachment) error
}

// ObjectStore is the subset of *minio.Client used here.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type service struct {
	store ObjectStore
	cfg   *config.Config
	now   func() time.Time
}

func NewService(store ObjectStore, cfg *config.Config) Service {
	return &service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *service) Upload(ctx context.Context, upload *domain.AttachmentUpload) (*domain.Attachment, error) {
	if upload == nil || upload.Reader == nil {
		return nil, domain.NewValidationError(domain.FieldErrors{
			string(domain.FieldAttachment): "attachment is empty",
		})
	}
	if s.cfg.MaxAttachmentSize > 0 && upload.Size > s.cfg.MaxAttachmentSize {
		return nil, domain.NewValidationError(domain.FieldErrors{
			string(domain.FieldAttachment): fmt.Sprintf("attachment exceeds %d bytes", s.cfg.MaxAttachmentSize),
		})
	}
	if s.store == nil {
		return nil, domain.NewStorageError("attachment upload", errStoreNotConfigured)
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storagePath := fmt.Sprintf("attachments/%s/%s%s",
		s.now().Format("2006/01"), uuid.New().String(), strings.ToLower(path.Ext(upload.FileName)))

	_, err := s.store.PutObject(ctx, s.cfg.MinIOBucket, storagePath, upload.Reader, upload.Size, minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf("inline; filename=%q", upload.FileName),
	})
	if err != nil {
		return nil, domain.NewStorageError("attachment upload", fmt.Errorf("failed to upload to MinIO: %w", err))
	}

	return &domain.Attachment{
		URL:              s.publicURL(storagePath),
		OriginalFilename: upload.FileName,
		StoragePath:      storagePath,
	}, nil
}

func (s *service) Remove(ctx context.Context, attachment *domain.Attachment) error {
	if attachment == nil || attachment.StoragePath == "" || s.store == nil {
		return nil
	}
	return s.store.RemoveObject(ctx, s.cfg.MinIOBucket, attachment.StoragePath, minio.RemoveObjectOptions{})
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, (&url.URL{Path: storagePath}).EscapedPath())
}
