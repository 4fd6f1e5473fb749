package commands

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hellosauravgupta/project-tracker-agent/internal/models"
	"github.com/hellosauravgupta/project-tracker-agent/internal/validation"
)

// NewProjectsCmd creates the projects command group
func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse and create projects",
	}

	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsGetCmd())
	cmd.AddCommand(newProjectsCreateCmd())

	return cmd
}

func newProjectsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/projects/"
			if status != "" {
				path += "?status=" + url.QueryEscape(status)
			}

			var projects []models.Project
			if err := getJSON(apiRoot(cmd), path, &projects); err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects found")
				return nil
			}
			for _, p := range projects {
				fmt.Printf("  %d  %-24s %-10s %s .. %s  (%d tasks)\n",
					p.ID, p.Name, p.Status, p.StartDate, p.EndDate, len(p.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by project status")
	return cmd
}

func newProjectsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single project with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("project ID must be numeric: %q", args[0])
			}

			var project models.Project
			if err := getJSON(apiRoot(cmd), "/projects/"+args[0], &project); err != nil {
				return err
			}
			return printJSON(project)
		},
	}
}

func newProjectsCreateCmd() *cobra.Command {
	req := models.CreateProjectRequest{Status: "active"}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, value := range map[string]string{
				"start-date": req.StartDate,
				"end-date":   req.EndDate,
			} {
				if err := validation.ValidateDate(value); err != nil {
					return fmt.Errorf("invalid --%s: %w", name, err)
				}
			}

			var project models.Project
			if err := postJSON(apiRoot(cmd), "/projects/", req, &project); err != nil {
				return err
			}
			fmt.Printf("Created project %d\n", project.ID)
			return printJSON(project)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&req.Description, "description", "", "Project description")
	cmd.Flags().StringVar(&req.StartDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Status, "status", "active", "Project status")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start-date")
	_ = cmd.MarkFlagRequired("end-date")

	return cmd
}
