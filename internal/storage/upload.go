package storage

import (
	"context"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectKey returns "<prefix>/<uuid><ext>" for an uploaded file name.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, uuid.New().String()+ext)
}

// UploadMultipartFile stores an uploaded form file under a fresh key and
// returns that key.
func UploadMultipartFile(
	ctx context.Context,
	store Storage,
	prefix string,
	file *multipart.FileHeader,
) (string, error) {

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := ObjectKey(prefix, file.Filename)
	if err := store.Put(ctx, key, f, file.Header.Get("Content-Type")); err != nil {
		return "", err
	}
	return key, nil
}
