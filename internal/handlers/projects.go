package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/database"
	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
	"github.com/hellosauravgupta/project-tracker-agent/internal/validation"
)

// projectFilterParams are the query params the list endpoint accepts as
// equality filters. Anything else is ignored.
var projectFilterParams = []string{"name", "description", "start_date", "end_date", "status"}

// ProjectHandler handles project and task CRUD requests plus the seed reset.
type ProjectHandler struct {
	repo   database.ProjectRepositoryInterface
	logger *zap.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(repo database.ProjectRepositoryInterface, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers project routes on the given router.
func (h *ProjectHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/seed", h.Seed).Methods("POST")
	r.HandleFunc("/projects/", h.CreateProject).Methods("POST")
	r.HandleFunc("/projects/", h.ListProjects).Methods("GET")
	r.HandleFunc("/projects/{id:[0-9]+}", h.GetProject).Methods("GET")
	r.HandleFunc("/projects/{id:[0-9]+}/tasks/", h.AddTask).Methods("POST")
}

// Seed clears all data and inserts the demo dataset. Running it twice leaves
// the same three projects.
func (h *ProjectHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Seed(r.Context(), time.Now()); err != nil {
		h.logger.Error("seed_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Failed to seed data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Seed data added"})
}

// CreateProject creates a new project with an empty task list.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateRequest(req); !ok {
		respondJSONError(w, http.StatusBadRequest, msg)
		return
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		Tasks:       []models.Task{},
	}

	if err := h.repo.Create(r.Context(), project); err != nil {
		h.logger.Error("create_project_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// GetProject retrieves a project with its nested tasks by ID.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondJSONError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		h.logger.Error("get_project_failed", zap.Int("project_id", id), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Failed to retrieve project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// ListProjects lists projects matching the supplied equality filters, in
// insertion order.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for _, key := range projectFilterParams {
		if value := r.URL.Query().Get(key); value != "" {
			filters[key] = value
		}
	}

	projects, err := h.repo.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list_projects_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// AddTask creates a task under a project, rejecting unknown project IDs so
// tasks can never be orphaned.
func (h *ProjectHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	projectID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateRequest(req); !ok {
		respondJSONError(w, http.StatusBadRequest, msg)
		return
	}

	task := &models.Task{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Status:     req.Status,
		DueDate:    req.DueDate,
	}

	err = h.repo.AddTask(r.Context(), projectID, task)
	if errors.Is(err, database.ErrNotFound) {
		respondJSONError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		h.logger.Error("add_task_failed", zap.Int("project_id", projectID), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// validateRequest runs struct validation and renders the first field error.
func validateRequest(req any) (string, bool) {
	err := validation.Validate.Struct(req)
	if err == nil {
		return "", true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return fmt.Sprintf("Validation failed on field '%s' (%s)", fe.Field(), fe.Tag()), false
	}

	return "Validation failed", false
}
