package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/interfaces"
	"collabBoard/internal/models"
	"collabBoard/internal/utils"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLength covers the signatures mimetype inspects for common image formats.
const sniffLength = 3072

// FileManagerService stores images referenced by image canvas objects.
type FileManagerService struct {
	fileManager interfaces.FileManager
	permissions *PermissionService
	bucketName  string
}

// NewFileManagerService accepts a nil fileManager, in which case uploads fail
// with errs.ErrFileStorageDisabled.
func NewFileManagerService(fileManager interfaces.FileManager, permissions *PermissionService, bucketName string) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
		permissions: permissions,
		bucketName:  bucketName,
	}
}

func (fs *FileManagerService) UploadCanvasImage(
	ctx context.Context,
	identity models.Identity,
	whiteboardID uint,
	fileName string,
	file io.Reader,
	fileSize int64,
) (string, error) {
	if fs.fileManager == nil {
		return "", errs.ErrFileStorageDisabled
	}
	if whiteboardID == 0 {
		return "", errs.ValidationErrors{errs.ErrWhiteboardRequired}
	}
	if _, err := fs.permissions.Require(ctx, identity, whiteboardID, enums.PERMISSION_EDIT); err != nil {
		return "", err
	}
	// The multipart Content-Type header is client controlled; sniff the bytes instead.
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", errs.ErrUnableToOpenUploadedFile
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()
	if !strings.HasPrefix(contentType, "image/") {
		return "", errs.ValidationErrors{errs.ErrInvalidFileType}
	}
	file = io.MultiReader(bytes.NewReader(head), file)

	key := utils.ObjectKey(fmt.Sprintf("whiteboards/%d", whiteboardID), fileName)
	url, err := fs.fileManager.UploadFile(ctx, key, file, fileSize, contentType, fs.bucketName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrUnableToUploadFile, err)
	}
	return url, nil
}
