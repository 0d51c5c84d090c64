package domain

import "time"

type FileUploadedEvent struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"filename"`
	SizeBytes    int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	AccessPath   string    `json:"fileUrl"`
	UploadedAt   time.Time `json:"uploadedAt"`
	TotalFiles   int64     `json:"totalFiles"`
	TotalSize    int64     `json:"totalSize"`
}

const (
	KafkaTopicFileUploaded = "file-uploaded"
)

func NewFileUploadedEvent(file *UploadedFile, stats AggregateStats) *FileUploadedEvent {
	return &FileUploadedEvent{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		StoredName:   file.StoredName,
		SizeBytes:    file.SizeBytes,
		MimeType:     file.MimeType,
		AccessPath:   file.AccessPath,
		UploadedAt:   file.UploadedAt,
		TotalFiles:   stats.TotalFiles,
		TotalSize:    stats.TotalSizeBytes,
	}
}
