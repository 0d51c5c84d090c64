package broker

import (
	"context"

	"logsaas-lite/internal/domain"
)

type Publisher interface {
	PublishFileUploaded(ctx context.Context, event *domain.FileUploadedEvent) error
	Close() error
}

// NopPublisher is used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishFileUploaded(context.Context, *domain.FileUploadedEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
