package supabase

import (
	"context"
	"io"

	"clinic_crm_backend/internal/storage"
)

// Storage uploads objects into one public bucket.
type Storage struct {
	client *Client
	bucket string
}

func NewStorage(client *Client, bucket string) *Storage {
	return &Storage{client: client, bucket: bucket}
}

// Upload stores the object at path and returns its public URL.
func (s *Storage) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	resp, err := s.client.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		SetError(&apiError{}).
		Post("/storage/v1/object/" + s.bucket + "/" + storage.EscapePath(path))
	if err := checkResponse(resp, err, "uploading "+path); err != nil {
		return "", err
	}
	return s.PublicURL(path), nil
}

// Remove deletes the object at path. The storage API reports missing objects
// as an empty result, not an error.
func (s *Storage) Remove(ctx context.Context, path string) error {
	resp, err := s.client.http.R().
		SetContext(ctx).
		SetBody(removeRequest{Prefixes: []string{path}}).
		SetError(&apiError{}).
		Delete("/storage/v1/object/" + s.bucket)
	return checkResponse(resp, err, "removing "+path)
}

type removeRequest struct {
	Prefixes []string `json:"prefixes"`
}

// PublicURL is the address a public-bucket object is served from.
func (s *Storage) PublicURL(path string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + storage.EscapePath(path)
}
