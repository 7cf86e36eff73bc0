package filestorage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minilms/minilms/internal/pkg/logger"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/uploads"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Public server address used to build file URLs
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL is optional; without it URL returns a root-relative path.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the storage root on disk.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveFileWithPath saves an uploaded file to a subdirectory under a uuid name,
// keeping the original extension. A nil header saves nothing.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil // No file uploaded
	}

	// Open the uploaded file
	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Generate a unique filename to prevent collisions
	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))

	ref, err := ls.write(subPath, uniqueFilename, file)
	if err != nil {
		return "", err
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("ref", ref).Msg("File saved successfully")
	return ref, nil
}

// SaveBytes writes data under subPath with a caller-chosen name.
func (ls *LocalStorage) SaveBytes(subPath, name string, data []byte) (string, error) {
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	ref, err := ls.write(subPath, name, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	logger.Info().Str("ref", ref).Int("size", len(data)).Msg("File saved successfully")
	return ref, nil
}

func (ls *LocalStorage) write(subPath, name string, src io.Reader) (string, error) {
	ref := path.Join(subPath, name)
	dstPath, err := ls.GetFullPath(ref)
	if err != nil {
		return "", err
	}

	// Ensure the subdirectory exists
	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file content")
		// Attempt to remove the partially created file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	return ref, nil
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(ref string) error {
	if ref == "" {
		return nil // Nothing to delete
	}

	physicalPath, err := ls.GetFullPath(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// URL returns the public address of a stored file.
func (ls *LocalStorage) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return ls.baseURL + PublicPrefix + "/" + strings.TrimLeft(ref, "/")
}

// GetFullPath maps a reference onto the filesystem, rejecting references
// that would leave the storage root.
func (ls *LocalStorage) GetFullPath(ref string) (string, error) {
	cleaned := path.Clean("/" + ref)
	if cleaned == "/" || strings.Contains(ref, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, ref)
	}
	if path.Clean(ref) != strings.TrimPrefix(cleaned, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, ref)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}
