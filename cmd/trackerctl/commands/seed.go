package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the database to the demo dataset",
		Long:  "Replaces all projects and tasks with three demo projects and their tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]string
			if err := postJSON(apiRoot(cmd), "/seed", struct{}{}, &result); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Println(result["message"])
			return nil
		},
	}
}
