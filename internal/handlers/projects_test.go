package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/database"
	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
)

// fakeProjectRepo is an in-memory ProjectRepositoryInterface for handler
// tests, preserving insertion order like the real repository.
type fakeProjectRepo struct {
	projects []*models.Project
	nextID   int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{nextID: 1}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	project.ID = r.nextID
	r.nextID++
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}
	copied := *project
	r.projects = append(r.projects, &copied)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id int) (*models.Project, error) {
	for _, project := range r.projects {
		if project.ID == id {
			copied := *project
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *fakeProjectRepo) List(_ context.Context, filters map[string]string) ([]*models.Project, error) {
	matches := []*models.Project{}
	for _, project := range r.projects {
		if projectMatches(project, filters) {
			copied := *project
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func projectMatches(p *models.Project, filters map[string]string) bool {
	fields := map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"start_date":  p.StartDate,
		"end_date":    p.EndDate,
		"status":      p.Status,
	}
	for key, want := range filters {
		if got, ok := fields[key]; ok && got != want {
			return false
		}
	}
	return true
}

func (r *fakeProjectRepo) AddTask(_ context.Context, projectID int, task *models.Task) error {
	for _, project := range r.projects {
		if project.ID == projectID {
			task.ID = r.nextID
			r.nextID++
			task.ProjectID = projectID
			project.Tasks = append(project.Tasks, *task)
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *fakeProjectRepo) Seed(_ context.Context, _ time.Time) error {
	r.projects = nil
	r.nextID = 1
	for i, count := range []int{4, 8, 3} {
		project := &models.Project{Name: "Demo", Status: "active", Tasks: []models.Task{}}
		_ = r.Create(context.Background(), project)
		stored := r.projects[i]
		for j := 0; j < count; j++ {
			stored.Tasks = append(stored.Tasks, models.Task{Title: "Task", ProjectID: stored.ID})
		}
	}
	return nil
}

func newTestRouter(repo database.ProjectRepositoryInterface) *mux.Router {
	r := mux.NewRouter()
	NewProjectHandler(repo, zap.NewNop()).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenGetProject(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakeProjectRepo())

	rec := postJSON(t, router, "/projects/", models.CreateProjectRequest{
		Name:        "Demo Project 1",
		Description: "Sample project 1",
		StartDate:   "2025-05-26",
		EndDate:     "2025-06-25",
		Status:      "active",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Create: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var created models.Project
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode created project: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected generated project ID")
	}
	if len(created.Tasks) != 0 {
		t.Errorf("Expected empty task list, got %d tasks", len(created.Tasks))
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Fatalf("Get: expected 200, got %d", getRec.Code)
	}

	var fetched models.Project
	if err := json.NewDecoder(getRec.Body).Decode(&fetched); err != nil {
		t.Fatalf("Failed to decode fetched project: %v", err)
	}
	if fetched.ID != created.ID {
		t.Errorf("Fetched project ID %d, created %d", fetched.ID, created.ID)
	}
	if fetched.Name != "Demo Project 1" || fetched.StartDate != "2025-05-26" || fetched.Status != "active" {
		t.Errorf("Field values not preserved: %+v", fetched)
	}
}

func TestCreateProject_ValidationErrors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakeProjectRepo())

	tests := []struct {
		name string
		body models.CreateProjectRequest
	}{
		{
			name: "missing name",
			body: models.CreateProjectRequest{Description: "d", StartDate: "2025-01-01", EndDate: "2025-02-01", Status: "active"},
		},
		{
			name: "malformed start date",
			body: models.CreateProjectRequest{Name: "p", Description: "d", StartDate: "not-a-date", EndDate: "2025-02-01", Status: "active"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := postJSON(t, router, "/projects/", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetProject_NotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakeProjectRepo())

	req := httptest.NewRequest(http.MethodGet, "/projects/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestAddTask_AppearsInProject(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	router := newTestRouter(repo)

	postJSON(t, router, "/projects/", models.CreateProjectRequest{
		Name: "p", Description: "d", StartDate: "2025-01-01", EndDate: "2025-02-01", Status: "active",
	})

	rec := postJSON(t, router, "/projects/1/tasks/", models.CreateTaskRequest{
		Title:      "Write report",
		AssignedTo: "Alice",
		Status:     "pending",
		DueDate:    "2025-01-15",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("AddTask: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)

	var project models.Project
	if err := json.NewDecoder(getRec.Body).Decode(&project); err != nil {
		t.Fatalf("Failed to decode project: %v", err)
	}
	if len(project.Tasks) != 1 || project.Tasks[0].Title != "Write report" {
		t.Errorf("Expected nested task after add, got %+v", project.Tasks)
	}
}

func TestAddTask_MissingProjectRejected(t *testing.T) {
	t.Parallel()

	router := newTestRouter(newFakeProjectRepo())

	rec := postJSON(t, router, "/projects/99/tasks/", models.CreateTaskRequest{
		Title: "t", AssignedTo: "a", Status: "pending", DueDate: "2025-01-15",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for task on missing project, got %d", rec.Code)
	}
}

func TestListProjects_Filters(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	router := newTestRouter(repo)

	for _, status := range []string{"active", "done", "active"} {
		postJSON(t, router, "/projects/", models.CreateProjectRequest{
			Name: "p-" + status, Description: "d", StartDate: "2025-01-01", EndDate: "2025-02-01", Status: status,
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/?status=active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var filtered []models.Project
	if err := json.NewDecoder(rec.Body).Decode(&filtered); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("Expected 2 active projects, got %d", len(filtered))
	}

	// No filters returns everything, in insertion order.
	req = httptest.NewRequest(http.MethodGet, "/projects/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var all []models.Project
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 projects, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID < all[i-1].ID {
			t.Errorf("Expected insertion order, got IDs %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}

func TestSeed_IdempotentReset(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	router := newTestRouter(repo)

	for i := 0; i < 2; i++ {
		rec := postJSON(t, router, "/seed", struct{}{})
		if rec.Code != http.StatusOK {
			t.Fatalf("Seed run %d: expected 200, got %d", i+1, rec.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode seed response: %v", err)
		}
		if body["message"] != "Seed data added" {
			t.Errorf("Unexpected seed message: %q", body["message"])
		}
	}

	if len(repo.projects) != 3 {
		t.Fatalf("Expected exactly 3 projects after double seed, got %d", len(repo.projects))
	}
	wantCounts := []int{4, 8, 3}
	for i, project := range repo.projects {
		if len(project.Tasks) != wantCounts[i] {
			t.Errorf("Project %d: expected %d tasks, got %d", i+1, wantCounts[i], len(project.Tasks))
		}
	}
}
