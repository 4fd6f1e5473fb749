package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
)

// seedUsers are the assignees demo tasks rotate over.
var seedUsers = []string{"Alice", "Bob", "Carol", "David", "Eve"}

// seedTaskCounts is the number of tasks each demo project receives.
var seedTaskCounts = []int{4, 8, 3}

// seedPlan builds the deterministic demo dataset relative to now: three
// projects with 4/8/3 tasks, assignees rotated over the five seed users and
// due dates spread around today.
func seedPlan(now time.Time) []*models.Project {
	today := now.UTC().Truncate(24 * time.Hour)
	projects := make([]*models.Project, 0, len(seedTaskCounts))

	for i, taskCount := range seedTaskCounts {
		n := i + 1
		project := &models.Project{
			Name:        fmt.Sprintf("Demo Project %d", n),
			Description: fmt.Sprintf("Sample project %d", n),
			StartDate:   today.AddDate(0, 0, -15).Format(models.DateFormat),
			EndDate:     today.AddDate(0, 0, 15).Format(models.DateFormat),
			Status:      "active",
			Tasks:       make([]models.Task, 0, taskCount),
		}

		for j := 0; j < taskCount; j++ {
			due := today.AddDate(0, 0, (j-taskCount/2)*2)
			status := "pending"
			if j%3 == 0 {
				status = "in-progress"
			}
			project.Tasks = append(project.Tasks, models.Task{
				Title:      fmt.Sprintf("Task %d for Project %d", j+1, n),
				AssignedTo: seedUsers[(n*j)%len(seedUsers)],
				Status:     status,
				DueDate:    due.Format(models.DateFormat),
			})
		}

		projects = append(projects, project)
	}

	return projects
}

// Seed clears all projects and tasks and inserts the demo dataset. The reset
// is idempotent: running it twice leaves the same three projects. Tasks are
// deleted before projects to keep referential integrity during the wipe.
func (r *ProjectRepository) Seed(ctx context.Context, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	for _, project := range seedPlan(now) {
		var projectID int
		err := tx.QueryRowContext(ctx, `
			INSERT INTO projects (name, description, start_date, end_date, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, project.Name, project.Description, project.StartDate, project.EndDate, project.Status).Scan(&projectID)
		if err != nil {
			return fmt.Errorf("failed to seed project: %w", err)
		}

		for _, task := range project.Tasks {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (title, assigned_to, status, due_date, project_id)
				VALUES ($1, $2, $3, $4, $5)
			`, task.Title, task.AssignedTo, task.Status, task.DueDate, projectID)
			if err != nil {
				return fmt.Errorf("failed to seed task: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return nil
}
