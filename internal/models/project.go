package models

// DateFormat is the wire format for all project and task dates.
const DateFormat = "2006-01-02"

// Project represents a tracked project and its tasks.
type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Tasks       []Task `json:"tasks"`
}

// Task represents a single task owned by a project.
type Task struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to"`
	Status     string `json:"status"`
	DueDate    string `json:"due_date"`
	ProjectID  int    `json:"project_id"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,date"`
	EndDate     string `json:"end_date" validate:"required,date"`
	Status      string `json:"status" validate:"required"`
}

// CreateTaskRequest is the payload for adding a task to a project.
type CreateTaskRequest struct {
	Title      string `json:"title" validate:"required"`
	AssignedTo string `json:"assigned_to" validate:"required"`
	Status     string `json:"status" validate:"required"`
	DueDate    string `json:"due_date" validate:"required,date"`
}
