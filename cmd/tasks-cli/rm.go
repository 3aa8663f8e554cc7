package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [position]",
		Short: "Delete a task",
		Long: `Delete the task at the given list position (as printed by
'tasks ls').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("position must be a number, got %q", args[0])
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

			index, err := a.resolveIndex(position)
			if err != nil {
				return err
			}

			task, err := a.svc.Todo(index)
			if err != nil {
				return err
			}

			if err := a.svc.DeleteTodo(ctx, index); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}

			fmt.Printf("Deleted task #%d: %s\n", task.ID, task.Title)
			return nil
		},
	}
}
