package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DaniarKamaev/Tasks/internal/config"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store status and configuration summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Println("Tasks Status")
			fmt.Println(strings.Repeat("=", 40))

			fmt.Println("\nConfiguration:")
			fmt.Printf("  Global:    %s\n", config.GlobalConfigPath())
			fmt.Printf("  Project:   %s\n", config.ProjectConfigPath())
			fmt.Printf("  Database:  %s\n", a.cfg.Database.Path)
			fmt.Printf("  Log level: %s\n", a.cfg.Log.Level)

			fmt.Println("\nSeed:")
			if a.cfg.Seed.Enabled {
				fmt.Printf("  Source:    %s\n", a.cfg.Seed.URL)
			} else {
				fmt.Println("  Source:    disabled")
			}

			ctx := cmd.Context()
			fmt.Println("\nStore:")
			fmt.Printf("  Schema:    v%d\n", a.store.SchemaVersion())
			fmt.Printf("  Tasks:     %d\n", a.store.Count(ctx))
			fmt.Printf("  Next id:   %d\n", a.store.NextAvailableID(ctx))

			return nil
		},
	}
}
