package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task to the list.

Omitted fields get placeholder values so the task can be filled in
later with 'tasks edit'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			title := ""
			if len(args) > 0 {
				title = args[0]
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.svc.LoadTasks(ctx); err != nil {
				return err
			}

			task, err := a.svc.AddNewTodo(ctx, title, description)
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}

			fmt.Printf("Added task #%d: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Task description")

	return cmd
}
