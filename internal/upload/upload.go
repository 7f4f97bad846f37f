// Package upload requests a presigned upload target and performs the raw
// upload to it.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tarminik/transcribe/internal/api"
)

const defaultContentType = "application/octet-stream"

// ErrFileTooLarge is returned when the upload target rejects the file with
// HTTP 413. It is not retryable; a smaller file is required.
var ErrFileTooLarge = errors.New("upload failed: file is too large for the server limit")

// StorageClient is the slice of the API surface the coordinator needs.
type StorageClient interface {
	Presign(ctx context.Context, filename, contentType string) (api.UploadTarget, error)
	DoStorage(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*http.Response, error)
}

// Coordinator composes presign and upload into one sequential operation.
// It applies no retry policy; that is a caller decision.
type Coordinator struct {
	client StorageClient
}

// NewCoordinator creates an upload coordinator.
func NewCoordinator(client StorageClient) *Coordinator {
	return &Coordinator{client: client}
}

// PresignAndUpload uploads the file at path and returns the object key the
// backend assigned to it.
func (c *Coordinator) PresignAndUpload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	contentType := ContentTypeFor(path)

	target, err := c.client.Presign(ctx, filepath.Base(path), contentType)
	if err != nil {
		return "", err
	}

	if err := c.Upload(ctx, target, contentType, file); err != nil {
		return "", err
	}

	return target.ObjectKey, nil
}

// Upload performs the raw PUT of the file bytes to a presigned target. The
// storage client decides whether the target needs bearer auth and proxying
// or goes out with only a Content-Type header.
func (c *Coordinator) Upload(ctx context.Context, target api.UploadTarget, contentType string, body io.Reader) error {
	resp, err := c.client.DoStorage(ctx, http.MethodPut, target.UploadURL, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusRequestEntityTooLarge {
			return ErrFileTooLarge
		}

		return fmt.Errorf("upload failed (%d)", resp.StatusCode)
	}

	return nil
}

// ContentTypeFor guesses a content type from the file extension, defaulting
// to a generic binary type.
func ContentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}

	return defaultContentType
}
