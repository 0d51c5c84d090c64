package file

import (
	"context"
	"io"

	"logsaas-lite/internal/domain"
)

type fileUsecase interface {
	Upload(ctx context.Context, data io.Reader, originalName, contentType string, size int64) (*domain.UploadedFile, error)
	List(ctx context.Context) ([]domain.UploadedFile, domain.AggregateStats, error)
	DashboardData(ctx context.Context) (*domain.DashboardData, error)
	Open(ctx context.Context, storedName string) (io.ReadSeekCloser, *domain.ObjectInfo, error)
}
