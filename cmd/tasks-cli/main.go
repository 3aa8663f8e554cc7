package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "tasks",
		Short:   "Tasks - personal task tracker with local SQLite storage",
		Version: Version,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: merged global and project config)")

	// Add subcommands
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(lsCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
