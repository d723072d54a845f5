package models

import "time"

// Task statuses used by the TaskSphere backend
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Statuses lists every valid task status in display order
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone}

// User represents an authenticated TaskSphere account
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref is a populated reference to another document (project or user).
// The backend expands foreign keys into {_id, name} objects on reads.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Collaborator is a user attached to a project
type Collaborator struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Project represents a TaskSphere project
type Project struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Creator       Ref            `json:"creator_id"`
	Collaborators []Collaborator `json:"collaborators"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Task represents a single task
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	ImageURL    string    `json:"image_url"`
	Project     Ref       `json:"project_id"`
	Creator     Ref       `json:"creator_id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StatusLabel returns a human-readable label for a task status
func StatusLabel(status string) string {
	switch status {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return status
}
