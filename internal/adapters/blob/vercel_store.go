package blob

import (
	"bytes"
	"coffeemap-service/internal/platform/httpclient"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const vercelAPIVersion = "7"

type putResponse struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

// VercelStore implements BlobStore on the Vercel Blob REST API.
type VercelStore struct {
	client  *httpclient.Client
	baseURL string
	// ownedHost is the host suffix of public blob URLs.
	ownedHost string
}

func NewVercelStore(token string) (*VercelStore, error) {
	if token == "" {
		return nil, errors.New("vercel blob: token is empty")
	}

	client := httpclient.New(30*time.Second, map[string]string{
		"Authorization": "Bearer " + token,
		"x-api-version": vercelAPIVersion,
	})

	return &VercelStore{
		client:    client,
		baseURL:   "https://blob.vercel-storage.com",
		ownedHost: ".blob.vercel-storage.com",
	}, nil
}

// WithBaseURL points the store at another API endpoint; URLs served by that
// host are considered owned.
func (s *VercelStore) WithBaseURL(baseURL string) *VercelStore {
	s.baseURL = strings.TrimRight(baseURL, "/")
	if u, err := url.Parse(s.baseURL); err == nil {
		s.ownedHost = u.Hostname()
	}
	return s
}

func (s *VercelStore) Put(
	ctx context.Context,
	name string,
	contentType string,
	body io.Reader,
) (_ ports.BlobObject, err error) {
	defer obs.Time(ctx, "blob.vercel.Put")(&err)

	data, err := io.ReadAll(body)
	if err != nil {
		return ports.BlobObject{}, fmt.Errorf("vercel blob put: read body: %w", err)
	}

	endpoint := s.baseURL + "/" + url.PathEscape(path.Base(name))
	resp, err := s.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := s.client.NewRequest(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("x-content-type", contentType)
		req.Header.Set("x-add-random-suffix", "1")
		return req, nil
	})
	if err != nil {
		return ports.BlobObject{}, fmt.Errorf("vercel blob put %q: %w", name, err)
	}
	defer resp.Body.Close()

	var pr putResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return ports.BlobObject{}, fmt.Errorf("vercel blob put: decode response: %w", err)
	}
	if pr.URL == "" {
		return ports.BlobObject{}, errors.New("vercel blob put: response has no url")
	}

	return ports.BlobObject{
		URL:         pr.URL,
		Pathname:    pr.Pathname,
		ContentType: pr.ContentType,
		Size:        int64(len(data)),
	}, nil
}

func (s *VercelStore) Delete(ctx context.Context, blobURL string) (err error) {
	defer obs.Time(ctx, "blob.vercel.Delete")(&err)

	payload, err := json.Marshal(map[string][]string{"urls": {blobURL}})
	if err != nil {
		return fmt.Errorf("vercel blob delete: %w", err)
	}

	resp, err := s.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return s.client.NewRequest(ctx, http.MethodPost, s.baseURL+"/delete", bytes.NewReader(payload))
	})
	if err != nil {
		return fmt.Errorf("vercel blob delete %q: %w", blobURL, err)
	}
	resp.Body.Close()
	return nil
}

func (s *VercelStore) Owns(blobURL string) bool {
	u, err := url.Parse(blobURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	return host == s.ownedHost || strings.HasSuffix(host, s.ownedHost)
}
