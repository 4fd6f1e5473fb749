package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type agentResponse struct {
	Response string `json:"response,omitempty"`
	PDF      string `json:"pdf,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewAgentCmd creates the agent command
func NewAgentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent <prompt>",
		Short: "Send a natural-language prompt to the tracker agent",
		Long:  "Sends a prompt to the agent endpoint and prints the tool response and generated PDF path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")

			var result agentResponse
			body := map[string]string{"prompt": prompt}
			if err := postJSON(apiRoot(cmd), "/agent", body, &result); err != nil {
				return err
			}

			if result.Error != "" {
				fmt.Printf("Agent error: %s\n", result.Error)
				return nil
			}
			fmt.Println(result.Response)
			if result.PDF != "" {
				fmt.Printf("PDF: %s\n", result.PDF)
			}
			return nil
		},
	}
}
