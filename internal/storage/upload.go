package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest paper file accepted.
const MaxUploadSize = 10 << 20

var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var allowedExtensions = []string{".pdf", ".doc", ".docx"}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Object describes a stored file.
type Object struct {
	Key         string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"fileType"`
}

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error)
}

// Validate accepts PDF and Word files up to MaxUploadSize. Browsers do not
// always report a correct MIME type, so a matching extension is enough.
func Validate(filename, contentType string, size int64) error {
	if filename == "" || size <= 0 {
		return &ValidationError{Message: "Invalid file or empty file uploaded"}
	}

	if !allowedTypes[contentType] && !hasAllowedExtension(filename) {
		return &ValidationError{
			Message: fmt.Sprintf("Invalid file type: %s. Only PDF and Word documents are allowed.", contentType),
		}
	}

	if size > MaxUploadSize {
		return &ValidationError{
			Message: fmt.Sprintf("File size (%.2f MB) exceeds the 10MB limit.", float64(size)/(1024*1024)),
		}
	}

	return nil
}

func hasAllowedExtension(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// ObjectKey returns a unique key under papers/ that keeps a readable,
// sanitized form of the original name.
func ObjectKey(filename string) string {
	return "papers/" + uuid.NewString() + "-" + unsafeChars.ReplaceAllString(filename, "_")
}
