package blob

import (
	"coffeemap-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps uploads on disk and serves them under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local blob store: create %q: %w", dir, err)
	}
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Put(ctx context.Context, name, contentType string, body io.Reader) (ports.BlobObject, error) {
	base := sanitizeName(name)
	if base == "" {
		return ports.BlobObject{}, errors.New("local blob put: empty file name")
	}
	stored := uuid.NewString()[:8] + "-" + base

	f, err := os.Create(filepath.Join(s.Dir, stored))
	if err != nil {
		return ports.BlobObject{}, fmt.Errorf("local blob put %q: %w", name, err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return ports.BlobObject{}, fmt.Errorf("local blob put %q: write: %w", name, err)
	}

	return ports.BlobObject{
		URL:         s.URLPrefix + "/" + stored,
		Pathname:    stored,
		ContentType: contentType,
		Size:        n,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, blobURL string) error {
	if !s.Owns(blobURL) {
		return fmt.Errorf("local blob delete: %q is not stored here", blobURL)
	}
	name := sanitizeName(strings.TrimPrefix(blobURL, s.URLPrefix+"/"))

	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("local blob delete %q: %w", blobURL, err)
	}
	return nil
}

func (s *LocalStore) Owns(blobURL string) bool {
	return strings.HasPrefix(blobURL, s.URLPrefix+"/")
}

// sanitizeName keeps only the last path element.
func sanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
