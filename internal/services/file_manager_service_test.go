package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngImage = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

type memoryFileManager struct {
	keys         []string
	contentTypes []string
	bodies       []string
	err          error
}

func (m *memoryFileManager) UploadFile(_ context.Context, objectKey string, file io.Reader, _ int64, contentType string, bucketName string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.keys = append(m.keys, objectKey)
	m.contentTypes = append(m.contentTypes, contentType)
	m.bodies = append(m.bodies, string(body))
	return "http://files/" + bucketName + "/" + objectKey, nil
}

func TestFileManagerService_UploadCanvasImage(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)
	f.grant(t, wb.ID, 2, enums.PERMISSION_VIEW)

	store := &memoryFileManager{}
	svc := NewFileManagerService(store, f.permissions, "canvas-images")

	url, err := svc.UploadCanvasImage(f.ctx, as(1), wb.ID, "cat.png", strings.NewReader(pngImage), int64(len(pngImage)))
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.Equal(t, "http://files/canvas-images/"+store.keys[0], url)
	assert.True(t, strings.HasSuffix(store.keys[0], ".png"))
	assert.Equal(t, "image/png", store.contentTypes[0])
	assert.Equal(t, pngImage, store.bodies[0], "sniffed bytes are uploaded too")

	_, err = svc.UploadCanvasImage(f.ctx, as(2), wb.ID, "cat.png", strings.NewReader(pngImage), int64(len(pngImage)))
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)

	_, err = svc.UploadCanvasImage(f.ctx, as(1), wb.ID, "notes.txt", strings.NewReader("hi"), 2)
	assert.ErrorIs(t, err, errs.ErrInvalidFileType)

	store.err = errors.New("disk full")
	_, err = svc.UploadCanvasImage(f.ctx, as(1), wb.ID, "cat.png", strings.NewReader(pngImage), int64(len(pngImage)))
	assert.ErrorIs(t, err, errs.ErrUnableToUploadFile)
}

func TestFileManagerService_SniffsContent(t *testing.T) {
	f := newFixture(t)
	wb := f.whiteboard(t, 1, false)

	store := &memoryFileManager{}
	svc := NewFileManagerService(store, f.permissions, "canvas-images")

	// A .png name does not make a script an image.
	_, err := svc.UploadCanvasImage(f.ctx, as(1), wb.ID, "cat.png", strings.NewReader("<script>alert(1)</script>"), 25)
	assert.ErrorIs(t, err, errs.ErrInvalidFileType)
	assert.Empty(t, store.keys)

	gif := "GIF89a\x01\x00\x01\x00\x00\x00\x00;"
	_, err = svc.UploadCanvasImage(f.ctx, as(1), wb.ID, "anim", strings.NewReader(gif), int64(len(gif)))
	require.NoError(t, err)
	assert.Equal(t, []string{"image/gif"}, store.contentTypes)
}

func TestFileManagerService_Disabled(t *testing.T) {
	f := newFixture(t)
	svc := NewFileManagerService(nil, f.permissions, "canvas-images")

	_, err := svc.UploadCanvasImage(f.ctx, as(1), 1, "cat.png", strings.NewReader(pngImage), int64(len(pngImage)))
	assert.ErrorIs(t, err, errs.ErrFileStorageDisabled)
}
