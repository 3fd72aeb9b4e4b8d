package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload accepts a raw file stream as the request body, stores it in the
// public attachments bucket, and returns the public URL together with the
// filename and detected content type. The caller attaches these to a post.
//
// There is deliberately no size cap, allow-list, or content inspection
// beyond type sniffing; the board accepts any file and stores it publicly.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "file"
	}
	// The filename is a client hint; only its base name and extension are
	// used, never any path component.
	filename = filepath.Base(filename)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	contentType := detectContentType(data, filename)

	now := time.Now()
	key := fmt.Sprintf("attachments/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), filepath.Ext(filename))

	if err := a.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data)); err != nil {
		slog.Error("attachment upload failed", "error", err, "key", key)
		writeError(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":          a.storage.FileURL(key),
		"filename":     filename,
		"content_type": contentType,
		"size_bytes":   len(data),
	})
}

// detectContentType sniffs the first 512 bytes of the file. When the
// sniffer cannot do better than a generic type, the filename extension
// decides.
func detectContentType(data []byte, filename string) string {
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	contentType := http.DetectContentType(data[:sniffLen])

	if contentType == "application/octet-stream" || strings.HasPrefix(contentType, "text/plain") {
		if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
			return byExt
		}
	}
	return contentType
}
