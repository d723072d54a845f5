package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tasksphere/tasksphere/internal/models"
)

// ScopeLimit is the page size used when fetching a full task scope for
// client-side filtering.
const ScopeLimit = 1000

// TaskQuery selects which tasks to list. Zero values are omitted from the
// request.
type TaskQuery struct {
	ProjectID string
	CreatorID string
	Search    string
	Status    string
	Page      int
	Limit     int
}

func (q TaskQuery) values() url.Values {
	params := url.Values{}
	if q.ProjectID != "" {
		params.Set("project_id", q.ProjectID)
	}
	if q.CreatorID != "" {
		params.Set("creator_id", q.CreatorID)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params
}

// ListTasks returns the tasks matching query
func (c *Client) ListTasks(ctx context.Context, query TaskQuery) ([]models.Task, error) {
	path := "/tasks"
	if params := query.values(); len(params) > 0 {
		path += "?" + params.Encode()
	}

	data, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Tasks, nil
}

// GetTask returns a single task by id
func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/tasks/"+id, nil)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskInput holds the writable task fields. ImageURL must point at an image
// already uploaded via UploadTaskImage.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     time.Time
	ProjectID   string
	CreatorID   string
	ImageURL    string
}

// formBody encodes the input as the multipart form the backend expects for
// task writes.
func (in TaskInput) formBody() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"status":      in.Status,
		"due_date":    in.DueDate.Format("2006-01-02"),
		"project_id":  in.ProjectID,
		"creator_id":  in.CreatorID,
		"image_url":   in.ImageURL,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// CreateTask creates a task
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	body, contentType, err := input.formBody()
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/tasks", body, contentType)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask updates a task
func (c *Client) UpdateTask(ctx context.Context, id string, input TaskInput) (*models.Task, error) {
	body, contentType, err := input.formBody()
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPut, "/tasks/"+id, body, contentType)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/tasks/"+id, nil)
	return err
}
