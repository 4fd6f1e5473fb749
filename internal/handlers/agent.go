package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/agent"
	"github.com/hellosauravgupta/project-tracker-agent/internal/logger"
)

// AgentRunner dispatches a prompt and returns the response envelope.
type AgentRunner interface {
	Run(ctx context.Context, prompt string) agent.Response
}

// PromptRequest is the agent endpoint's request body.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// AgentHandler handles natural-language agent requests.
type AgentHandler struct {
	executor AgentRunner
	logger   *zap.Logger
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(executor AgentRunner, log *zap.Logger) *AgentHandler {
	return &AgentHandler{executor: executor, logger: log}
}

// RegisterRoutes registers the agent route on the given router.
func (h *AgentHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/agent", h.Query).Methods("POST")
}

// Query runs the prompt dispatcher. Every failure is folded into the
// envelope's error field with HTTP 200, so a malformed prompt never surfaces
// as a transport-level fault.
func (h *AgentHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusOK, agent.Response{Error: "Invalid request body"})
		return
	}
	if req.Prompt == "" {
		respondJSON(w, http.StatusOK, agent.Response{Error: "Prompt is required"})
		return
	}

	h.logger.Info("agent_prompt_received",
		zap.String("prompt_preview", logger.SanitizePrompt(req.Prompt)),
	)

	resp := h.executor.Run(r.Context(), req.Prompt)
	respondJSON(w, http.StatusOK, resp)
}
