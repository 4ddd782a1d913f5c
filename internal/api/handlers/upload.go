package handlers

import (
	"bytes"
	"coffeemap-service/internal/api/dto"
	"coffeemap-service/internal/platform/obs"
	"coffeemap-service/internal/ports"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const maxUploadSize = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadHandler struct {
	// Blobs may be nil, in which case every upload gets a placeholder URL.
	Blobs ports.BlobStore
}

// Upload stores the raw request body as an image named by ?filename=.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimSpace(r.URL.Query().Get("filename"))
	if filename == "" {
		writeError(w, r, http.StatusBadRequest, "Filename is required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusBadRequest, "File size must be less than 5MB")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "No file provided")
		return
	}
	if len(body) == 0 {
		writeError(w, r, http.StatusBadRequest, "No file provided")
		return
	}

	mtype := mimetype.Detect(body)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		writeError(w, r, http.StatusBadRequest, "File must be an image (JPEG, PNG, WebP)")
		return
	}

	if h.Blobs != nil {
		obj, err := h.Blobs.Put(r.Context(), filename, mtype.String(), bytes.NewReader(body))
		if err == nil {
			writeJSON(w, r, http.StatusOK, dto.UploadResponse{
				URL:         obj.URL,
				Pathname:    obj.Pathname,
				ContentType: obj.ContentType,
				Size:        obj.Size,
			})
			return
		}
		obs.FromContext(r.Context()).Warn("blob upload failed, using placeholder", zap.Error(err))
	}

	writeJSON(w, r, http.StatusOK, dto.UploadResponse{
		URL:      "/api/placeholder/400/300?text=" + url.QueryEscape(filename),
		Size:     int64(len(body)),
		Name:     filename,
		Fallback: true,
	})
}
