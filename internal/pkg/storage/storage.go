package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Read for a missing file.
var ErrNotExist = errors.New("file does not exist")

type FileStorage interface {
	// Write stores the content of r at path, replacing any previous file
	Write(ctx context.Context, path string, r io.Reader) error

	// Read opens the file at path
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
