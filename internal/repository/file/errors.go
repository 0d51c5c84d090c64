package file

import "errors"

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileExists        = errors.New("file already exists")
	ErrInvalidObjectName = errors.New("invalid object name")
	ErrStorageError      = errors.New("storage error")
)
