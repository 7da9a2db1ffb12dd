package utils

import (
	"io"
	"lms/config"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadPath returns the directory for uploads of the given kind.
func UploadPath(kind string) string {
	return filepath.Join(config.AppConfig.UploadDir, kind)
}

// SaveUploadedFile stores file under destDir with a unique name and returns
// the stored path.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Create a unique filename
	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8] + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return filePath, nil
}

// RemoveUploadedFile deletes a file previously stored by SaveUploadedFile.
// Paths outside the upload directory are ignored.
func RemoveUploadedFile(filePath string) {
	if filePath == "" {
		return
	}
	root, err := filepath.Abs(config.AppConfig.UploadDir)
	if err != nil {
		return
	}
	abs, err := filepath.Abs(filePath)
	if err != nil || !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return
	}
	_ = os.Remove(abs)
}

// GetFileURL maps a stored path to the URL it is served from.
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	rel, err := filepath.Rel(config.AppConfig.UploadDir, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.TrimRight(config.AppConfig.PublicURL, "/") + "/uploads/" + filepath.ToSlash(rel)
}

// RemoveUploadedURL deletes the stored file behind a URL returned by GetFileURL.
func RemoveUploadedURL(fileURL string) {
	prefix := strings.TrimRight(config.AppConfig.PublicURL, "/") + "/uploads/"
	if !strings.HasPrefix(fileURL, prefix) {
		return
	}
	RemoveUploadedFile(filepath.Join(config.AppConfig.UploadDir, filepath.FromSlash(strings.TrimPrefix(fileURL, prefix))))
}
