package file

import "errors"

var (
	ErrFileNotFound   = errors.New("file not found")
	ErrStorageError   = errors.New("storage error")
	ErrRegistryError  = errors.New("registry error")
	ErrNameCollisions = errors.New("could not allocate a unique stored name")
)
