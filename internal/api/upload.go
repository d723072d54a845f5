package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Upload is the result of a successful image upload
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// UploadTaskImage uploads the image at path and returns its hosted URL.
// Task creation requires a successful upload first.
func (c *Client) UploadTaskImage(ctx context.Context, path string) (*Upload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/upload/task", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var upload Upload
	if err := json.Unmarshal(data, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}
