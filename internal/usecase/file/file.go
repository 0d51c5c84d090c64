package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"logsaas-lite/internal/domain"
	repoFile "logsaas-lite/internal/repository/file"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const maxNameAttempts = 5

type FileUsecase struct {
	registry  fileRegistry
	storage   fileStorage
	publisher eventPublisher
	logger    *zlog.Zerolog
	now       func() time.Time
	randN     func() int64
}

func NewFileUsecase(registry fileRegistry, storage fileStorage, publisher eventPublisher, logger *zlog.Zerolog) *FileUsecase {
	return &FileUsecase{
		registry:  registry,
		storage:   storage,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		randN:     func() int64 { return rand.Int64N(1e9) },
	}
}

// Upload stores data under a fresh name, records it and updates the totals.
// Nothing is rolled back if recording fails after the bytes were stored.
func (u *FileUsecase) Upload(ctx context.Context, data io.Reader, originalName, contentType string, size int64) (*domain.UploadedFile, error) {
	uploadedAt := u.now()

	storedName, err := u.store(ctx, data, originalName, contentType, size, uploadedAt)
	if err != nil {
		u.logger.Error().Err(err).Str("filename", originalName).Msg("Failed to store file")
		return nil, err
	}

	file := domain.UploadedFile{
		ID:           newID(),
		OriginalName: originalName,
		StoredName:   storedName,
		SizeBytes:    size,
		MimeType:     contentType,
		AccessPath:   domain.AccessPathFor(storedName),
		UploadedAt:   uploadedAt,
	}

	stats, err := u.registry.Append(ctx, file)
	if err != nil {
		u.logger.Error().Err(err).Str("stored_name", storedName).Msg("File stored but not recorded")
		return nil, fmt.Errorf("%w: %v", ErrRegistryError, err)
	}

	u.logger.Info().
		Str("original_name", file.OriginalName).
		Str("filename", file.StoredName).
		Int64("size", file.SizeBytes).
		Str("mimetype", file.MimeType).
		Int64("total_files", stats.TotalFiles).
		Int64("total_size", stats.TotalSizeBytes).
		Msg("File uploaded")

	if err := u.publisher.PublishFileUploaded(ctx, domain.NewFileUploadedEvent(&file, stats)); err != nil {
		u.logger.Warn().Err(err).Str("file_id", file.ID).Msg("Failed to publish upload event")
	}

	return &file, nil
}

func (u *FileUsecase) store(ctx context.Context, data io.Reader, originalName, contentType string, size int64, at time.Time) (string, error) {
	ext := domain.StoredExtension(originalName)

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := fmt.Sprintf("%s%d-%d%s", domain.StoredNamePrefix, at.UnixMilli(), u.randN(), ext)

		err := u.storage.Save(ctx, name, data, size, contentType)
		switch {
		case err == nil:
			return name, nil
		case errors.Is(err, repoFile.ErrFileExists):
			u.logger.Debug().Str("stored_name", name).Msg("Stored name taken, generating another")
			continue
		default:
			return "", fmt.Errorf("%w: %v", ErrStorageError, err)
		}
	}

	return "", ErrNameCollisions
}

// List returns every record, oldest first, with the totals read at the same moment.
func (u *FileUsecase) List(ctx context.Context) ([]domain.UploadedFile, domain.AggregateStats, error) {
	files, stats, err := u.registry.Snapshot(ctx)
	if err != nil {
		return nil, domain.AggregateStats{}, fmt.Errorf("%w: %v", ErrRegistryError, err)
	}

	u.logger.Debug().Int("files", len(files)).Int64("total_size", stats.TotalSizeBytes).Msg("Files listed")
	return files, stats, nil
}

func (u *FileUsecase) DashboardData(ctx context.Context) (*domain.DashboardData, error) {
	files, stats, err := u.registry.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryError, err)
	}

	today := domain.StartOfDay(u.now())
	uploadedToday := 0
	for _, f := range files {
		if domain.StartOfDay(f.UploadedAt.In(today.Location())).Equal(today) {
			uploadedToday++
		}
	}

	data := &domain.DashboardData{
		TotalLogsToday: uploadedToday,
		SuccessCount:   stats.TotalFiles,
		ActiveServers:  domain.ActiveServerCount,
		ActiveAlerts:   len(stats.FileTypeCounts),
	}

	u.logger.Info().
		Int("files_uploaded_today", uploadedToday).
		Int64("total_files", stats.TotalFiles).
		Int("file_types", data.ActiveAlerts).
		Msg("Dashboard data requested")

	return data, nil
}

// Open returns the stored bytes of a previously uploaded file.
func (u *FileUsecase) Open(ctx context.Context, storedName string) (io.ReadSeekCloser, *domain.ObjectInfo, error) {
	rc, info, err := u.storage.Open(ctx, storedName)
	if err != nil {
		if errors.Is(err, repoFile.ErrFileNotFound) || errors.Is(err, repoFile.ErrInvalidObjectName) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	return rc, info, nil
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
