package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"logsaas-lite/internal/config"
	"logsaas-lite/internal/domain"
	repoFile "logsaas-lite/internal/repository/file"
	"logsaas-lite/internal/repository/file/disk"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
)

// FileRepository stores uploads as objects in a single MinIO bucket.
type FileRepository struct {
	client *minio.Client
	bucket string
	logger *zlog.Zerolog
}

func NewMinIORepository(ctx context.Context, cfg *config.Config, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
		Region: cfg.Minio.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	repo := &FileRepository{
		client: client,
		bucket: cfg.Minio.Bucket,
		logger: logger,
	}

	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *FileRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", r.bucket, err)
	}
	if exists {
		return nil
	}

	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}

	r.logger.Info().Str("bucket", r.bucket).Msg("Bucket created")
	return nil
}

func (r *FileRepository) Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) error {
	if !disk.ValidObjectName(name) {
		return repoFile.ErrInvalidObjectName
	}

	if _, err := r.client.StatObject(ctx, r.bucket, name, minio.StatObjectOptions{}); err == nil {
		return repoFile.ErrFileExists
	} else if !isNotFound(err) {
		return fmt.Errorf("%w: stat %s: %v", repoFile.ErrStorageError, name, err)
	}

	info, err := r.client.PutObject(ctx, r.bucket, name, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", repoFile.ErrStorageError, name, err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("object", name).
		Int64("size", info.Size).
		Msg("Object stored")

	return nil
}

func (r *FileRepository) Open(ctx context.Context, name string) (io.ReadSeekCloser, *domain.ObjectInfo, error) {
	if !disk.ValidObjectName(name) {
		return nil, nil, repoFile.ErrInvalidObjectName
	}

	obj, err := r.client.GetObject(ctx, r.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: get %s: %v", repoFile.ErrStorageError, name, err)
	}

	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, nil, repoFile.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("%w: stat %s: %v", repoFile.ErrStorageError, name, err)
	}

	return obj, &domain.ObjectInfo{
		Name:        name,
		Size:        st.Size,
		ContentType: st.ContentType,
		ModTime:     st.LastModified,
	}, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
