package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hellosauravgupta/project-tracker-agent/cmd/trackerctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "trackerctl",
		Short: "Command line client for the project tracker API",
		Long:  "CLI tool for seeding demo data, browsing projects and querying the tracker agent",
	}

	rootCmd.PersistentFlags().String("api", commands.DefaultAPIRoot, "Base URL of the tracker API")

	rootCmd.AddCommand(commands.NewSeedCmd())
	rootCmd.AddCommand(commands.NewProjectsCmd())
	rootCmd.AddCommand(commands.NewAgentCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
