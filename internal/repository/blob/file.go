package blob

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/storage"
)

// DefaultFilePath is where FileKV keeps the collection inside the storage root.
const DefaultFilePath = "attendance/records.json"

// FileKV keeps the collection in one JSON file of a FileStorage.
type FileKV struct {
	storage storage.FileStorage
	path    string
}

func NewFileKV(fs storage.FileStorage, path string) *FileKV {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileKV{storage: fs, path: path}
}

func (f *FileKV) Get(ctx context.Context) ([]byte, error) {
	rc, err := f.storage.Read(ctx, f.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (f *FileKV) Put(ctx context.Context, data []byte) error {
	return f.storage.Write(ctx, f.path, bytes.NewReader(data))
}
