package interfaces

import (
	"context"
	"io"
)

// FileManager stores uploaded blobs and returns a URL clients can fetch them from.
type FileManager interface {
	UploadFile(ctx context.Context, objectKey string, file io.Reader, fileSize int64, contentType string, bucketName string) (string, error)
}
