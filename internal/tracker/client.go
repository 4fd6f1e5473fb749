// Package tracker is an HTTP client for the projects API the agent tools
// query. The upstream may or may not be the same process that serves the
// CRUD endpoints; the tools only depend on the REST contract.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 15 * time.Second

var (
	// ErrUnavailable is returned when the upstream responds with a
	// non-200 status or cannot be reached.
	ErrUnavailable = errors.New("tracker API unavailable")
	// ErrNotFound is returned when the upstream reports a missing project.
	ErrNotFound = errors.New("project not found")
)

// Client calls the projects API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a tracker client for the given API root.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// ActiveProjects fetches all projects with status "active", tasks included.
func (c *Client) ActiveProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.getJSON(ctx, "/projects/?status=active", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// AllProjects fetches every project, tasks included.
func (c *Client) AllProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.getJSON(ctx, "/projects/", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ProjectByID fetches a single project with its tasks.
func (c *Client) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := c.getJSON(ctx, "/projects/"+id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode tracker response: %w", err)
	}

	return nil
}
