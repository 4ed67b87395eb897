package movieflix

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"movieflix/internal/logging"
	"movieflix/internal/media"
	"movieflix/internal/poster"
	"movieflix/internal/services"
)

// MaxUploadBytes bounds poster files read from disk.
const MaxUploadBytes = 10 << 20

// Upload is a poster image attached to a create or update.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// OpenUpload reads a poster image from disk.
func OpenUpload(path string) (*Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "open poster", path, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, component, "open poster", path+" is a directory", nil)
	}
	if info.Size() > MaxUploadBytes {
		return nil, services.Wrap(services.ErrValidation, component, "open poster",
			fmt.Sprintf("%s exceeds %d MiB", filepath.Base(path), MaxUploadBytes>>20), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "open poster", path, err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, services.Wrap(services.ErrValidation, component, "open poster",
			fmt.Sprintf("%s is not an image (%s)", filepath.Base(path), contentType), nil)
	}
	return &Upload{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}

// ListEntries fetches every entry of the signed-in user with poster URLs
// resolved against the backend origin.
func (c *Client) ListEntries(ctx context.Context) ([]media.Entry, error) {
	req, err := jsonRequest("list entries", http.MethodGet, "/entries", nil, "Failed to fetch entries.")
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, component, "list entries", "decode entries", err)
	}
	for i := range entries {
		entries[i].Poster = poster.Normalize(entries[i].Poster, c.baseURL)
	}
	logging.WithContext(ctx, c.logger).Debug("entries fetched", logging.Int("count", len(entries)))
	return entries, nil
}

// decodeEntries accepts a bare array or an object wrapping it.
func decodeEntries(raw json.RawMessage) ([]media.Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []media.Entry{}, nil
	}
	if trimmed[0] == '[' {
		var entries []media.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}
	var wrapped struct {
		Entries []media.Entry `json:"entries"`
		Data    []media.Entry `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Entries != nil {
		return wrapped.Entries, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	return []media.Entry{}, nil
}

// CreateEntry adds a new entry. The draft goes out as JSON, or as a multipart
// form with a "data" JSON part and a "poster" file part when upload is set.
func (c *Client) CreateEntry(ctx context.Context, draft media.Draft, upload *Upload) (*media.Entry, error) {
	return c.saveEntry(ctx, "create entry", http.MethodPost, "/entries", draft, upload, "Failed to create entry.")
}

// UpdateEntry replaces the fields of an existing entry using the same
// encoding rule as CreateEntry.
func (c *Client) UpdateEntry(ctx context.Context, id string, draft media.Draft, upload *Upload) (*media.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, component, "update entry", "entry id is required", nil)
	}
	return c.saveEntry(ctx, "update entry", http.MethodPut, "/entries/"+url.PathEscape(id), draft, upload, "Failed to update entry.")
}

// DeleteEntry removes an entry.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return services.Wrap(services.ErrValidation, component, "delete entry", "entry id is required", nil)
	}
	req, err := jsonRequest("delete entry", http.MethodDelete, "/entries/"+url.PathEscape(id), nil, "Failed to delete entry.")
	if err != nil {
		return err
	}
	if err := c.do(ctx, req, nil); err != nil {
		return err
	}
	logging.WithContext(ctx, c.logger).Info("entry deleted", logging.String(logging.FieldEntryID, id))
	return nil
}

func (c *Client) saveEntry(ctx context.Context, operation, method, path string, draft media.Draft, upload *Upload, fallback string) (*media.Entry, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	var (
		req request
		err error
	)
	if upload != nil {
		req, err = multipartRequest(operation, method, path, draft, upload, fallback)
	} else {
		req, err = jsonRequest(operation, method, path, draft, fallback)
	}
	if err != nil {
		return nil, err
	}

	var entry media.Entry
	if err := c.do(ctx, req, &entry); err != nil {
		return nil, err
	}
	entry.Poster = poster.Normalize(entry.Poster, c.baseURL)
	logging.WithContext(ctx, c.logger).Info("entry saved",
		logging.String(logging.FieldOperation, operation),
		logging.String(logging.FieldEntryID, entry.ID),
		logging.Bool("poster_uploaded", upload != nil),
	)
	return &entry, nil
}

func multipartRequest(operation, method, path string, draft media.Draft, upload *Upload, fallback string) (request, error) {
	req := request{operation: operation, method: method, path: path, fallback: fallback}
	data, err := json.Marshal(draft)
	if err != nil {
		return req, fmt.Errorf("marshal entry: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("data", string(data)); err != nil {
		return req, fmt.Errorf("write data part: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "poster",
		"filename": upload.Name,
	}))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return req, fmt.Errorf("create poster part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return req, fmt.Errorf("write poster part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return req, fmt.Errorf("close multipart body: %w", err)
	}
	req.body = buf.Bytes()
	req.contentType = writer.FormDataContentType()
	return req, nil
}
