package file

import (
	"errors"
	"fmt"
	"net/http"

	"logsaas-lite/internal/http-server/handler/file/dto"
	"logsaas-lite/internal/http-server/respond"
	file_uc "logsaas-lite/internal/usecase/file"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory = 32 << 20

	// room for multipart boundaries and part headers on top of the file itself
	multipartOverhead = 1 << 20

	formField = "file"
)

type FileHandler struct {
	usecase  fileUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
	maxSize  int64
	devMode  bool
}

func NewFileHandler(usecase fileUsecase, logger *zlog.Zerolog, maxSize int64, devMode bool) *FileHandler {
	return &FileHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
		maxSize:  maxSize,
		devMode:  devMode,
	}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if isTooLarge(err) {
			h.handleUploadError(w, ErrFileTooLarge, "")
			return
		}
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.handleUploadError(w, ErrNoFile, "")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formField)
	if err != nil {
		h.logger.Warn().Err(err).Msg("File not found in request")
		h.handleUploadError(w, ErrNoFile, "")
		return
	}
	defer file.Close()

	form := dto.UploadForm{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}

	if err := h.validate.Struct(form); err != nil {
		h.logger.Warn().Err(err).Str("filename", form.Filename).Msg("Invalid upload")
		respond.Error(w, http.StatusBadRequest, "Invalid file", "File name must be between 1 and 255 characters", h.details(err))
		return
	}

	if form.Size > h.maxSize {
		h.handleUploadError(w, ErrFileTooLarge, form.Filename)
		return
	}

	uploaded, err := h.usecase.Upload(ctx, file, form.Filename, form.ContentType, form.Size)
	if err != nil {
		h.handleUploadError(w, err, form.Filename)
		return
	}

	respond.JSON(w, http.StatusOK, dto.UploadResponse{
		Message: "File uploaded successfully",
		File:    *uploaded,
	})
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, stats, err := h.usecase.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list files")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch files list", "Internal server error", h.details(err))
		return
	}

	respond.JSON(w, http.StatusOK, dto.FilesResponse{
		Files: files,
		Stats: stats,
	})
}

func (h *FileHandler) DashboardData(w http.ResponseWriter, r *http.Request) {
	data, err := h.usecase.DashboardData(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute dashboard data")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch dashboard data", "Internal server error", h.details(err))
		return
	}

	respond.JSON(w, http.StatusOK, data)
}

// Serve streams a stored file by its stored name.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "storedName")

	rc, info, err := h.usecase.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, file_uc.ErrFileNotFound) {
			respond.NotFound(w, r)
			return
		}
		h.logger.Error().Err(err).Str("stored_name", name).Msg("Failed to open stored file")
		respond.Error(w, http.StatusInternalServerError, "Internal Server Error", "Failed to read file", h.details(err))
		return
	}
	defer rc.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	http.ServeContent(w, r, info.Name, info.ModTime, rc)
}

func (h *FileHandler) handleUploadError(w http.ResponseWriter, err error, filename string) {
	switch {
	case errors.Is(err, ErrNoFile):
		respond.Error(w, http.StatusBadRequest, "No file uploaded", "Please select a file to upload", "")
	case errors.Is(err, ErrFileTooLarge):
		h.logger.Warn().Str("filename", filename).Int64("max_size", h.maxSize).Msg("File too large")
		respond.Error(w, http.StatusRequestEntityTooLarge, "File too large",
			fmt.Sprintf("File exceeds the maximum upload size of %d MB", h.maxSize/(1024*1024)), "")
	default:
		h.logger.Error().Err(err).Str("filename", filename).Msg("Upload failed")
		respond.Error(w, http.StatusInternalServerError, "Upload failed", "Failed to upload file", h.details(err))
	}
}

func (h *FileHandler) details(err error) string {
	if !h.devMode || err == nil {
		return ""
	}
	return err.Error()
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
