package database

import (
	"context"
	"time"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
)

// ProjectRepositoryInterface defines the project repository operations.
// This interface enables better testability by allowing mock implementations.
type ProjectRepositoryInterface interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int) (*models.Project, error)
	List(ctx context.Context, filters map[string]string) ([]*models.Project, error)
	AddTask(ctx context.Context, projectID int, task *models.Task) error
	Seed(ctx context.Context, now time.Time) error
}

var _ ProjectRepositoryInterface = (*ProjectRepository)(nil)
