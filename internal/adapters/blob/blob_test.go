package blob

import (
	"coffeemap-service/internal/ports"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.BlobStore = (*VercelStore)(nil)
	_ ports.BlobStore = (*LocalStore)(nil)
)

func TestVercelStorePut(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/latte.jpg", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "image/jpeg", r.Header.Get("x-content-type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "jpegbytes", string(body))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"url":         srv.URL + "/latte-abc123.jpg",
			"pathname":    "latte-abc123.jpg",
			"contentType": "image/jpeg",
		})
	}))
	defer srv.Close()

	s, err := NewVercelStore("tok")
	require.NoError(t, err)
	s.WithBaseURL(srv.URL)

	obj, err := s.Put(context.Background(), "../latte.jpg", "image/jpeg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/latte-abc123.jpg", obj.URL)
	assert.Equal(t, int64(9), obj.Size)
	assert.True(t, s.Owns(obj.URL))
}

func TestVercelStoreDelete(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewVercelStore("tok")
	require.NoError(t, err)
	s.WithBaseURL(srv.URL)

	require.NoError(t, s.Delete(context.Background(), srv.URL+"/a.jpg"))
	assert.Equal(t, []string{srv.URL + "/a.jpg"}, got["urls"])
}

func TestVercelStoreDeleteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	s, err := NewVercelStore("tok")
	require.NoError(t, err)
	s.WithBaseURL(srv.URL)
	s.client.Backoff = time.Millisecond

	assert.Error(t, s.Delete(context.Background(), srv.URL+"/a.jpg"))
}

func TestVercelStoreOwns(t *testing.T) {
	s, err := NewVercelStore("tok")
	require.NoError(t, err)

	assert.True(t, s.Owns("https://abc.public.blob.vercel-storage.com/cafe.jpg"))
	assert.False(t, s.Owns("/cafe1.jpg"))
	assert.False(t, s.Owns("https://example.com/cafe.jpg"))

	_, err = NewVercelStore("")
	assert.Error(t, err)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := s.Put(ctx, "../../etc/logo.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(obj.URL, "-logo.png"))
	assert.True(t, s.Owns(obj.URL))
	assert.Equal(t, int64(3), obj.Size)

	data, err := os.ReadFile(filepath.Join(dir, obj.Pathname))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(ctx, obj.URL))
	_, err = os.Stat(filepath.Join(dir, obj.Pathname))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Deleting twice is fine; foreign URLs are not.
	assert.NoError(t, s.Delete(ctx, obj.URL))
	assert.Error(t, s.Delete(ctx, "https://elsewhere.test/x.png"))

	_, err = s.Put(ctx, "..", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}
