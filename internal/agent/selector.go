package agent

import (
	"context"
	"regexp"
	"strings"
)

// Selector chooses one tool for a prompt. Implementations are black boxes to
// the rest of the system: rule-based, model-based and remote selectors are
// interchangeable. Returning ToolFallback (or an unknown name) routes the
// prompt to the fallback tool.
type Selector interface {
	SelectTool(ctx context.Context, prompt string, tools []ToolDescription) (name string, argument string, err error)
}

var assigneePattern = regexp.MustCompile(`(?i)(?:for|assigned to|by)\s+([A-Za-z][A-Za-z'-]*)`)

// KeywordSelector is a rule-based Selector used when no language model is
// configured. It keys off intent words in the prompt and extracts the
// assignee or project ID as the tool argument.
type KeywordSelector struct{}

// NewKeywordSelector creates a rule-based selector.
func NewKeywordSelector() *KeywordSelector {
	return &KeywordSelector{}
}

// SelectTool matches the prompt against simple intent rules.
func (s *KeywordSelector) SelectTool(_ context.Context, prompt string, _ []ToolDescription) (string, string, error) {
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "overdue"):
		return ToolFetchOverdueTasks, extractAssignee(prompt), nil
	case strings.Contains(lower, "task"):
		if _, ok := ParseProjectID(prompt); ok {
			return ToolGetProjectByID, prompt, nil
		}
		return ToolFetchAllTasks, extractAssignee(prompt), nil
	case projectIDPattern.MatchString(prompt):
		return ToolGetProjectByID, prompt, nil
	case strings.Contains(lower, "projects") || strings.Contains(lower, "list"):
		return ToolListProjects, "", nil
	default:
		return ToolFallback, "", nil
	}
}

// extractAssignee pulls an assignee name out of phrases like "tasks for
// Alice" or "assigned to Bob". Falls back to the last capitalized word, then
// to the raw prompt.
func extractAssignee(prompt string) string {
	if m := assigneePattern.FindStringSubmatch(prompt); m != nil {
		return m[1]
	}

	fields := strings.Fields(prompt)
	for i := len(fields) - 1; i >= 0; i-- {
		word := strings.Trim(fields[i], ".,!?")
		if word == "" {
			continue
		}
		first := rune(word[0])
		if first >= 'A' && first <= 'Z' && i > 0 {
			return word
		}
	}

	return strings.TrimSpace(prompt)
}
