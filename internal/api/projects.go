package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tasksphere/tasksphere/internal/models"
)

// ProjectInput holds the writable project fields
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListProjects returns every project visible to the current user
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListUserProjects returns the projects created by the current user.
// This endpoint nests its list under a "projects" key, unlike /projects;
// the client unwraps both so callers always get a plain slice.
func (c *Client) ListUserProjects(ctx context.Context) ([]models.Project, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/user/projects", nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Projects []models.Project `json:"projects"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Projects, nil
}

// GetProject returns a single project by id
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/projects/"+id, nil)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/projects", input)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject updates a project
func (c *Client) UpdateProject(ctx context.Context, id string, input ProjectInput) (*models.Project, error) {
	data, err := c.doJSON(ctx, http.MethodPut, "/projects/"+id, input)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project and its tasks
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/projects/"+id, nil)
	return err
}

// AddCollaborator adds a user to a project by email. The backend answers
// 409 when the user already collaborates on the project.
func (c *Client) AddCollaborator(ctx context.Context, projectID, email string) (*models.Project, error) {
	payload := map[string]string{"email": email}
	data, err := c.doJSON(ctx, http.MethodPost, "/collaborators/projects/"+projectID+"/collaborators", payload)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// RemoveCollaborator removes a collaborator from a project by user id
func (c *Client) RemoveCollaborator(ctx context.Context, projectID, userID string) (*models.Project, error) {
	data, err := c.doJSON(ctx, http.MethodDelete, "/projects/"+projectID+"/collaborators/"+userID, nil)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
