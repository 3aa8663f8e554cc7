package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [position]",
		Short: "Toggle a task's completion state",
		Long: `Toggle the completion state of the task at the given list
position (as printed by 'tasks ls'). A completed task toggled again
becomes pending.`,
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

			if err := a.svc.ToggleCompletion(ctx, index); err != nil {
				return fmt.Errorf("toggle task: %w", err)
			}

			task, err := a.svc.Todo(index)
			if err != nil {
				return err
			}
			state := "pending"
			if task.IsCompleted {
				state = "done"
			}
			fmt.Printf("Task #%d is now %s: %s\n", task.ID, state, task.Title)
			return nil
		},
	}
}
