package filestorage

import (
	"errors"
	"mime/multipart"
)

// ErrInvalidPath is returned for references that escape the storage root.
var ErrInvalidPath = errors.New("invalid file path")

// FileStorage defines the interface for file storage operations.
// References are slash separated and relative to the storage root,
// e.g. "certificates/certificate_7_1.pdf".
type FileStorage interface {
	// SaveFileWithPath stores an upload under subPath with a unique name
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes stores data under subPath with the given name, replacing any existing file
	SaveBytes(subPath, name string, data []byte) (string, error)

	// DeleteFile removes a file from storage
	DeleteFile(ref string) error

	// URL returns the public address of a stored file
	URL(ref string) string

	// GetFullPath returns the full filesystem path for a reference
	GetFullPath(ref string) (string, error)
}
