package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/logger"
)

// TelemetryRecorder logs prompt/response pairs. Writes are best-effort.
type TelemetryRecorder interface {
	RecordTelemetry(ctx context.Context, prompt, response string) error
}

// PDFExporter renders redacted response text to a PDF file and returns the
// generated filename.
type PDFExporter interface {
	Export(content string) (string, error)
}

// Response is the agent endpoint's envelope. Exactly one of the
// response/pdf pair or the error field is populated.
type Response struct {
	Text  string `json:"response,omitempty"`
	PDF   string `json:"pdf,omitempty"`
	Error string `json:"error,omitempty"`
}

// Executor is the prompt dispatcher: it selects one tool for the prompt,
// invokes it, and runs the post-processing pipeline over the result.
type Executor struct {
	registry  *Registry
	selector  Selector
	telemetry TelemetryRecorder
	exporter  PDFExporter
	logger    *zap.Logger
}

// NewExecutor wires the dispatcher to its registry, selection strategy and
// post-processing dependencies.
func NewExecutor(registry *Registry, selector Selector, telemetry TelemetryRecorder, exporter PDFExporter, log *zap.Logger) *Executor {
	return &Executor{
		registry:  registry,
		selector:  selector,
		telemetry: telemetry,
		exporter:  exporter,
		logger:    log,
	}
}

// Run dispatches a prompt. Every failure mode is folded into the error field
// of the envelope; Run never panics outward and never returns a Go error.
func (e *Executor) Run(ctx context.Context, prompt string) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("agent_panic_recovered", zap.Any("error", r))
			resp = Response{Error: fmt.Sprintf("%v", r)}
		}
	}()

	name, argument, err := e.selector.SelectTool(ctx, prompt, e.registry.Descriptions())
	if err != nil {
		e.logger.Warn("tool_selection_failed", zap.Error(err))
		return Response{Error: err.Error()}
	}

	tool := e.registry.Lookup(name)
	e.logger.Info("tool_selected",
		zap.String("tool", tool.Name),
		zap.String("prompt_preview", logger.SanitizePrompt(prompt)),
	)

	result, err := tool.Invoke(ctx, argument)
	if err != nil {
		e.logger.Warn("tool_invocation_failed", zap.String("tool", tool.Name), zap.Error(err))
		return Response{Error: err.Error()}
	}

	output, err := json.Marshal(result)
	if err != nil {
		return Response{Error: err.Error()}
	}

	safeOutput := RedactPII(string(output))

	if err := e.telemetry.RecordTelemetry(ctx, prompt, safeOutput); err != nil {
		// Telemetry is fire-and-forget; a failed write never fails the request.
		e.logger.Warn("telemetry_write_failed", zap.Error(err))
	}

	pdfFile, err := e.exporter.Export(safeOutput)
	if err != nil {
		e.logger.Warn("pdf_export_failed", zap.Error(err))
		return Response{Error: err.Error()}
	}

	return Response{Text: safeOutput, PDF: pdfFile}
}
