package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"logsaas-lite/internal/domain"
	repoFile "logsaas-lite/internal/repository/file"

	"github.com/wb-go/wbf/zlog"
)

// FileRepository keeps uploaded bytes as plain files in a single directory.
type FileRepository struct {
	dir    string
	logger *zlog.Zerolog
}

func NewFileRepository(dir string, logger *zlog.Zerolog) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	return &FileRepository{
		dir:    dir,
		logger: logger,
	}, nil
}

// Save writes data to a new file called name. An existing file with the same
// name is never overwritten; ErrFileExists is returned instead.
func (r *FileRepository) Save(ctx context.Context, name string, data io.Reader, size int64, contentType string) error {
	path, err := r.path(name)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return repoFile.ErrFileExists
		}
		return fmt.Errorf("%w: create %s: %v", repoFile.ErrStorageError, name, err)
	}

	written, err := io.Copy(out, data)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: write %s: %v", repoFile.ErrStorageError, name, err)
	}

	r.logger.Debug().
		Str("path", path).
		Int64("written", written).
		Int64("size", size).
		Str("content_type", contentType).
		Msg("File written to disk")

	return nil
}

func (r *FileRepository) Open(ctx context.Context, name string) (io.ReadSeekCloser, *domain.ObjectInfo, error) {
	path, err := r.path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, repoFile.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("%w: open %s: %v", repoFile.ErrStorageError, name, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: stat %s: %v", repoFile.ErrStorageError, name, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, nil, repoFile.ErrFileNotFound
	}

	info := &domain.ObjectInfo{
		Name:        name,
		Size:        st.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		ModTime:     st.ModTime(),
	}

	return f, info, nil
}

func (r *FileRepository) path(name string) (string, error) {
	if !ValidObjectName(name) {
		return "", repoFile.ErrInvalidObjectName
	}
	return filepath.Join(r.dir, name), nil
}

// ValidObjectName reports whether name is a single, plain path segment.
func ValidObjectName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
