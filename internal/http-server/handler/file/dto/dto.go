package dto

import "logsaas-lite/internal/domain"

type UploadForm struct {
	Filename    string `validate:"required,max=255"`
	Size        int64  `validate:"gte=0"`
	ContentType string
}

type UploadResponse struct {
	Message string              `json:"message"`
	File    domain.UploadedFile `json:"file"`
}

type FilesResponse struct {
	Files []domain.UploadedFile `json:"files"`
	Stats domain.AggregateStats `json:"stats"`
}
