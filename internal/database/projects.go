package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
)

// allowedProjectFilters whitelists the columns list queries may filter on.
// Unknown filter keys are ignored.
var allowedProjectFilters = map[string]bool{
	"name":        true,
	"description": true,
	"start_date":  true,
	"end_date":    true,
	"status":      true,
}

// ProjectRepository handles project and task database operations.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project and fills in its generated ID.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (name, description, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		project.Name,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.Status,
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}

	return nil
}

// GetByID retrieves a project with its tasks, or ErrNotFound.
func (r *ProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	project := &models.Project{}
	var startDate, endDate time.Time

	query := `
		SELECT id, name, description, start_date, end_date, status
		FROM projects
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&startDate,
		&endDate,
		&project.Status,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project.StartDate = startDate.Format(models.DateFormat)
	project.EndDate = endDate.Format(models.DateFormat)

	tasksByProject, err := r.tasksForProjects(ctx, []int{project.ID})
	if err != nil {
		return nil, err
	}
	project.Tasks = tasksByProject[project.ID]

	return project, nil
}

// List retrieves projects matching every supplied filter by exact equality,
// ordered by insertion. An empty filter set returns all projects.
func (r *ProjectRepository) List(ctx context.Context, filters map[string]string) ([]*models.Project, error) {
	query, args := buildListQuery(filters)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	ids := []int{}
	for rows.Next() {
		project := &models.Project{}
		var startDate, endDate time.Time

		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&startDate,
			&endDate,
			&project.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}

		project.StartDate = startDate.Format(models.DateFormat)
		project.EndDate = endDate.Format(models.DateFormat)
		projects = append(projects, project)
		ids = append(ids, project.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	if len(ids) == 0 {
		return projects, nil
	}

	tasksByProject, err := r.tasksForProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		project.Tasks = tasksByProject[project.ID]
	}

	return projects, nil
}

// AddTask inserts a task under the given project. Returns ErrNotFound when
// the project does not exist, so tasks can never be orphaned.
func (r *ProjectRepository) AddTask(ctx context.Context, projectID int, task *models.Task) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check project existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	query := `
		INSERT INTO tasks (title, assigned_to, status, due_date, project_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		task.Title,
		task.AssignedTo,
		task.Status,
		task.DueDate,
		projectID,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	task.ProjectID = projectID
	return nil
}

// tasksForProjects loads tasks for the given project IDs, keyed by project.
// Every requested project gets at least an empty slice.
func (r *ProjectRepository) tasksForProjects(ctx context.Context, projectIDs []int) (map[int][]models.Task, error) {
	tasksByProject := make(map[int][]models.Task, len(projectIDs))
	for _, id := range projectIDs {
		tasksByProject[id] = []models.Task{}
	}

	query := `
		SELECT id, title, assigned_to, status, due_date, project_id
		FROM tasks
		WHERE project_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task models.Task
		var dueDate time.Time

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.AssignedTo,
			&task.Status,
			&dueDate,
			&task.ProjectID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.DueDate = dueDate.Format(models.DateFormat)
		tasksByProject[task.ProjectID] = append(tasksByProject[task.ProjectID], task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasksByProject, nil
}

// buildListQuery builds the filtered project list query. Filter keys outside
// the whitelist are dropped; matching is exact equality.
func buildListQuery(filters map[string]string) (string, []any) {
	query := `SELECT id, name, description, start_date, end_date, status FROM projects`
	args := []any{}

	keys := make([]string, 0, len(filters))
	for key := range filters {
		if allowedProjectFilters[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for i, key := range keys {
		if i == 0 {
			query += " WHERE "
		} else {
			query += " AND "
		}
		query += fmt.Sprintf("%s = $%d", key, i+1)
		args = append(args, filters[key])
	}

	query += " ORDER BY id"
	return query, args
}
