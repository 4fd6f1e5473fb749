package agent

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
	"github.com/hellosauravgupta/project-tracker-agent/internal/tracker"
)

// Tool names selectable by the dispatcher.
const (
	ToolFetchOverdueTasks = "FetchOverdueTasks"
	ToolFetchAllTasks     = "FetchAllTasks"
	ToolListProjects      = "ListProjects"
	ToolGetProjectByID    = "GetProjectByID"
	ToolFallback          = "FallbackTool"
)

// FallbackMessage is the fixed reply for prompts that match no tool.
const FallbackMessage = "Sorry, I couldn't find a tool to help with that. Please try a different query or be more specific."

var projectIDPattern = regexp.MustCompile(`(?i)project[\s#]*(\d+)`)

// Upstream is the slice of the tracker client the data tools use.
type Upstream interface {
	ActiveProjects(ctx context.Context) ([]models.Project, error)
	AllProjects(ctx context.Context) ([]models.Project, error)
	ProjectByID(ctx context.Context, id string) (*models.Project, error)
}

// Cache is the slice of the cache store the data tools use.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// ToolFunc invokes a tool with at most one string argument extracted from
// the prompt and returns a JSON-serializable payload.
type ToolFunc func(ctx context.Context, arg string) (any, error)

// Tool is a named, described callable exposed for selection.
type Tool struct {
	Name        string
	Description string
	Invoke      ToolFunc
}

// ToolDescription is the selector's view of a tool.
type ToolDescription struct {
	Name        string
	Description string
}

// TaskListResult is the payload shape for task-fetching tools.
type TaskListResult struct {
	Tasks []models.Task `json:"tasks"`
}

// ErrorResult is the structured error payload tools return instead of
// raising, so a bad prompt never surfaces as a transport fault.
type ErrorResult struct {
	Error string `json:"error"`
}

// FallbackResult is the payload of the fallback tool.
type FallbackResult struct {
	Message string `json:"message"`
}

// Registry holds the fixed set of tools the dispatcher may choose from.
type Registry struct {
	upstream Upstream
	cache    Cache
	logger   *zap.Logger
	now      func() time.Time

	tools  []Tool
	byName map[string]Tool
}

// NewRegistry builds the tool registry. The data tools are cache-aside
// clients of the upstream projects API; the fallback tool takes no data
// dependency.
func NewRegistry(upstream Upstream, cache Cache, logger *zap.Logger) *Registry {
	r := &Registry{
		upstream: upstream,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}

	r.tools = []Tool{
		{
			Name:        ToolFetchOverdueTasks,
			Description: "Fetch only overdue tasks assigned to a specific user",
			Invoke:      r.fetchOverdueTasks,
		},
		{
			Name:        ToolFetchAllTasks,
			Description: "Fetch all tasks assigned to a specific user",
			Invoke:      r.fetchAllTasks,
		},
		{
			Name:        ToolListProjects,
			Description: "List all projects",
			Invoke:      r.listAllProjects,
		},
		{
			Name:        ToolGetProjectByID,
			Description: "Get a specific project and its tasks by ID",
			Invoke:      r.getProjectByID,
		},
		{
			Name:        ToolFallback,
			Description: "Used when the prompt doesn't match any known tools",
			Invoke:      r.fallback,
		},
	}

	r.byName = make(map[string]Tool, len(r.tools))
	for _, tool := range r.tools {
		r.byName[tool.Name] = tool
	}

	return r
}

// Descriptions enumerates the selectable tools.
func (r *Registry) Descriptions() []ToolDescription {
	descs := make([]ToolDescription, 0, len(r.tools))
	for _, tool := range r.tools {
		descs = append(descs, ToolDescription{Name: tool.Name, Description: tool.Description})
	}
	return descs
}

// Lookup returns the named tool. Unknown names resolve to the fallback tool,
// so a confused selector can never crash a request.
func (r *Registry) Lookup(name string) Tool {
	if tool, ok := r.byName[name]; ok {
		return tool
	}
	return r.byName[ToolFallback]
}

// fetchOverdueTasks returns tasks for the assignee with a due date strictly
// before today and a status other than "done". Tasks with unparsable due
// dates are skipped rather than failing the call.
func (r *Registry) fetchOverdueTasks(ctx context.Context, assignee string) (any, error) {
	key := "overdue:" + strings.ToLower(assignee)

	var cached TaskListResult
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	projects, err := r.upstream.ActiveProjects(ctx)
	if err != nil {
		r.logger.Warn("upstream_call_failed", zap.String("tool", ToolFetchOverdueTasks), zap.Error(err))
		return ErrorResult{Error: "API call failed"}, nil
	}

	today := r.today()
	result := TaskListResult{Tasks: []models.Task{}}
	for _, project := range projects {
		for _, task := range project.Tasks {
			due, err := time.Parse(models.DateFormat, task.DueDate)
			if err != nil {
				continue
			}
			if strings.EqualFold(task.AssignedTo, assignee) && task.Status != "done" && due.Before(today) {
				result.Tasks = append(result.Tasks, task)
			}
		}
	}

	r.cacheSet(ctx, key, result)
	return result, nil
}

// fetchAllTasks returns every task assigned to the given user, matched
// case-insensitively.
func (r *Registry) fetchAllTasks(ctx context.Context, assignee string) (any, error) {
	key := "all:" + strings.ToLower(assignee)

	var cached TaskListResult
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	projects, err := r.upstream.ActiveProjects(ctx)
	if err != nil {
		r.logger.Warn("upstream_call_failed", zap.String("tool", ToolFetchAllTasks), zap.Error(err))
		return ErrorResult{Error: "API call failed"}, nil
	}

	result := TaskListResult{Tasks: []models.Task{}}
	for _, project := range projects {
		for _, task := range project.Tasks {
			if strings.EqualFold(task.AssignedTo, assignee) {
				result.Tasks = append(result.Tasks, task)
			}
		}
	}

	r.cacheSet(ctx, key, result)
	return result, nil
}

// listAllProjects returns every project. The argument is ignored.
func (r *Registry) listAllProjects(ctx context.Context, _ string) (any, error) {
	key := "projects:all"

	var cached []models.Project
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	projects, err := r.upstream.AllProjects(ctx)
	if err != nil {
		r.logger.Warn("upstream_call_failed", zap.String("tool", ToolListProjects), zap.Error(err))
		return ErrorResult{Error: "Project API error"}, nil
	}

	r.cacheSet(ctx, key, projects)
	return projects, nil
}

// getProjectByID parses a project ID out of the argument and fetches that
// project. A bare digit string is taken as the ID; otherwise the first
// "project #N" pattern wins, case-insensitively.
func (r *Registry) getProjectByID(ctx context.Context, arg string) (any, error) {
	id, ok := ParseProjectID(arg)
	if !ok {
		return ErrorResult{Error: "No project ID found in prompt."}, nil
	}

	key := "project:" + id

	var cached models.Project
	if hit, err := r.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	project, err := r.upstream.ProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return ErrorResult{Error: "Project not found"}, nil
		}
		r.logger.Warn("upstream_call_failed", zap.String("tool", ToolGetProjectByID), zap.Error(err))
		return ErrorResult{Error: "Project not found"}, nil
	}

	r.cacheSet(ctx, key, project)
	return *project, nil
}

// fallback returns the fixed no-matching-tool message.
func (r *Registry) fallback(_ context.Context, _ string) (any, error) {
	return FallbackResult{Message: FallbackMessage}, nil
}

// ParseProjectID extracts a project ID from free text. Returns false when no
// ID is present.
func ParseProjectID(arg string) (string, bool) {
	trimmed := strings.TrimSpace(arg)
	if trimmed != "" && isDigits(trimmed) {
		return trimmed, true
	}
	if m := projectIDPattern.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	return "", false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// today returns the current date with the time component dropped, so overdue
// comparisons are strict date comparisons.
func (r *Registry) today() time.Time {
	now := r.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// cacheSet writes through to the cache. A failed write costs one extra
// upstream call later; it never fails the request.
func (r *Registry) cacheSet(ctx context.Context, key string, value any) {
	if err := r.cache.Set(ctx, key, value); err != nil {
		r.logger.Warn("cache_write_failed", zap.String("key", key), zap.Error(err))
	}
}
