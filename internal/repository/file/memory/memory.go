package memory

import (
	"context"
	"sync"

	"logsaas-lite/internal/domain"
)

// Registry is the append-only, in-process record of accepted uploads and
// their running totals. Records and totals change together under one lock.
type Registry struct {
	mu    sync.RWMutex
	files []domain.UploadedFile
	stats domain.AggregateStats
}

func NewRegistry() *Registry {
	return &Registry{
		files: make([]domain.UploadedFile, 0),
		stats: domain.AggregateStats{
			FileTypeCounts: make(map[string]int64),
		},
	}
}

// Append stores file and returns the totals as they stand after it.
func (r *Registry) Append(_ context.Context, file domain.UploadedFile) (domain.AggregateStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, file)

	uploadedAt := file.UploadedAt
	r.stats.TotalFiles++
	r.stats.TotalSizeBytes += file.SizeBytes
	r.stats.LastUploadAt = &uploadedAt
	r.stats.FileTypeCounts[domain.ExtensionKey(file.OriginalName)]++

	return r.statsLocked(), nil
}

func (r *Registry) List(_ context.Context) ([]domain.UploadedFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filesLocked(), nil
}

func (r *Registry) Stats(_ context.Context) (domain.AggregateStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.statsLocked(), nil
}

// Snapshot returns records and totals read under the same lock.
func (r *Registry) Snapshot(_ context.Context) ([]domain.UploadedFile, domain.AggregateStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filesLocked(), r.statsLocked(), nil
}

func (r *Registry) filesLocked() []domain.UploadedFile {
	files := make([]domain.UploadedFile, len(r.files))
	copy(files, r.files)
	return files
}

func (r *Registry) statsLocked() domain.AggregateStats {
	counts := make(map[string]int64, len(r.stats.FileTypeCounts))
	for k, v := range r.stats.FileTypeCounts {
		counts[k] = v
	}

	stats := domain.AggregateStats{
		TotalFiles:     r.stats.TotalFiles,
		TotalSizeBytes: r.stats.TotalSizeBytes,
		FileTypeCounts: counts,
	}
	if r.stats.LastUploadAt != nil {
		last := *r.stats.LastUploadAt
		stats.LastUploadAt = &last
	}

	return stats
}
