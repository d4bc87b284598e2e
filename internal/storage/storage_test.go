package storage

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "menus/a.png", strings.NewReader("image"), "image/png"))

	rc, err := store.Get(ctx, "menus/a.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))

	_, err = store.Get(ctx, "menus/missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../x", "/etc/passwd", ""} {
		err := store.Put(context.Background(), key, strings.NewReader("x"), "")
		assert.Error(t, err, key)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("menus", "Lunch.JPG")
	assert.Regexp(t, regexp.MustCompile(`^menus/[0-9a-f-]{36}\.jpg$`), key)
	assert.NotEqual(t, key, ObjectKey("menus", "Lunch.JPG"))
}

func TestUploadMultipartFile(t *testing.T) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", "scan.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	fh := req.MultipartForm.File["image"][0]

	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := UploadMultipartFile(context.Background(), store, "menus", fh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "menus/"))

	rc, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "png-bytes", string(data))
}

func TestNewR2Client_RequiresBucket(t *testing.T) {
	_, err := NewR2Client(context.Background(), R2Config{Endpoint: "https://example.r2.cloudflarestorage.com"})
	assert.Error(t, err)
}
