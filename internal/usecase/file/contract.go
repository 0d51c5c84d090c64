package file

import (
	"context"
	"io"

	"logsaas-lite/internal/domain"
)

type fileRegistry interface {
	Append(ctx context.Context, file domain.UploadedFile) (domain.AggregateStats, error)
	List(ctx context.Context) ([]domain.UploadedFile, error)
	Stats(ctx context.Context) (domain.AggregateStats, error)
	Snapshot(ctx context.Context) ([]domain.UploadedFile, domain.AggregateStats, error)
}

type fileStorage interface {
	Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadSeekCloser, *domain.ObjectInfo, error)
}

type eventPublisher interface {
	PublishFileUploaded(ctx context.Context, event *domain.FileUploadedEvent) error
}
