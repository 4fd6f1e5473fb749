package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
)

type stubSelector struct {
	tool string
	arg  string
	err  error
}

func (s *stubSelector) SelectTool(context.Context, string, []ToolDescription) (string, string, error) {
	return s.tool, s.arg, s.err
}

type stubTelemetry struct {
	prompts   []string
	responses []string
	err       error
}

func (s *stubTelemetry) RecordTelemetry(_ context.Context, prompt, response string) error {
	if s.err != nil {
		return s.err
	}
	s.prompts = append(s.prompts, prompt)
	s.responses = append(s.responses, response)
	return nil
}

type stubExporter struct {
	filename string
	err      error
	contents []string
}

func (s *stubExporter) Export(content string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.contents = append(s.contents, content)
	return s.filename, nil
}

func newTestExecutor(selector Selector, telemetry TelemetryRecorder, exporter PDFExporter) *Executor {
	registry := testRegistry(&fakeUpstream{projects: demoProjects()}, newMemoryCache())
	return NewExecutor(registry, selector, telemetry, exporter, zap.NewNop())
}

func TestExecutor_Run_Success(t *testing.T) {
	t.Parallel()

	telemetry := &stubTelemetry{}
	exporter := &stubExporter{filename: "output_abc12345.pdf"}
	executor := newTestExecutor(&stubSelector{tool: ToolFetchAllTasks, arg: "Alice"}, telemetry, exporter)

	resp := executor.Run(context.Background(), "all tasks for Alice")

	if resp.Error != "" {
		t.Fatalf("Unexpected error in envelope: %q", resp.Error)
	}
	if resp.Text == "" {
		t.Error("Expected non-empty response text")
	}
	if resp.PDF != "output_abc12345.pdf" {
		t.Errorf("Expected pdf filename in envelope, got %q", resp.PDF)
	}
	if len(telemetry.prompts) != 1 || telemetry.prompts[0] != "all tasks for Alice" {
		t.Errorf("Expected telemetry record with original prompt, got %+v", telemetry.prompts)
	}
	if len(exporter.contents) != 1 || exporter.contents[0] != resp.Text {
		t.Error("Expected exporter to receive the redacted response text")
	}
}

func TestExecutor_Run_FallbackEnvelope(t *testing.T) {
	t.Parallel()

	exporter := &stubExporter{filename: "output_def67890.pdf"}
	executor := newTestExecutor(&stubSelector{tool: ToolFallback}, &stubTelemetry{}, exporter)

	resp := executor.Run(context.Background(), "What's the weather like?")

	if resp.Error != "" {
		t.Fatalf("Unexpected error in envelope: %q", resp.Error)
	}
	if !strings.Contains(strings.ToLower(resp.Text), "sorry") {
		t.Errorf("Expected fallback response to contain 'sorry', got %q", resp.Text)
	}
	if resp.PDF == "" {
		t.Error("Expected a pdf filename even for the fallback path")
	}
}

func TestExecutor_Run_SelectionFailure(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor(&stubSelector{err: errors.New("model unavailable")}, &stubTelemetry{}, &stubExporter{filename: "x.pdf"})

	resp := executor.Run(context.Background(), "anything")

	if resp.Error != "model unavailable" {
		t.Errorf("Expected selection error in envelope, got %q", resp.Error)
	}
	if resp.Text != "" || resp.PDF != "" {
		t.Error("Expected empty response/pdf on error")
	}
}

func TestExecutor_Run_TelemetryFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	telemetry := &stubTelemetry{err: errors.New("redis down")}
	executor := newTestExecutor(&stubSelector{tool: ToolListProjects}, telemetry, &stubExporter{filename: "out.pdf"})

	resp := executor.Run(context.Background(), "list projects")

	if resp.Error != "" {
		t.Errorf("Telemetry failure must not fail the request, got error %q", resp.Error)
	}
	if resp.PDF != "out.pdf" {
		t.Errorf("Expected pdf despite telemetry failure, got %q", resp.PDF)
	}
}

func TestExecutor_Run_ExportFailure(t *testing.T) {
	t.Parallel()

	executor := newTestExecutor(&stubSelector{tool: ToolListProjects}, &stubTelemetry{}, &stubExporter{err: errors.New("disk full")})

	resp := executor.Run(context.Background(), "list projects")

	if resp.Error != "disk full" {
		t.Errorf("Expected export error in envelope, got %q", resp.Error)
	}
}

func TestExecutor_Run_RedactsToolOutput(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{projects: demoProjects()}
	upstream.projects[0].Tasks = append(upstream.projects[0].Tasks, models.Task{
		ID:         99,
		Title:      "Email mallory@example.com",
		AssignedTo: "Mallory",
		Status:     "pending",
		DueDate:    "2025-06-01",
		ProjectID:  1,
	})
	registry := testRegistry(upstream, newMemoryCache())
	executor := NewExecutor(registry, &stubSelector{tool: ToolFetchAllTasks, arg: "mallory"}, &stubTelemetry{}, &stubExporter{filename: "out.pdf"}, zap.NewNop())

	resp := executor.Run(context.Background(), "tasks for mallory")

	if strings.Contains(resp.Text, "mallory@example.com") {
		t.Error("Expected email to be redacted from response")
	}
	if !strings.Contains(resp.Text, "[REDACTED_EMAIL]") {
		t.Errorf("Expected redaction placeholder in response, got %q", resp.Text)
	}
}
