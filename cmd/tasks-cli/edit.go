package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a task's title or description",
		Long: `Edit the task with the given id (the #N shown by 'tasks ls').
Only the fields passed as flags change; the creation time is always
preserved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be a number, got %q", args[0])
			}

			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
				return fmt.Errorf("nothing to change: pass --title and/or --description")
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

			task, err := a.svc.TodoByID(id)
			if err != nil {
				return fmt.Errorf("task #%d: %w", id, err)
			}

			if cmd.Flags().Changed("title") {
				task.Title, _ = cmd.Flags().GetString("title")
			}
			if cmd.Flags().Changed("description") {
				task.Description, _ = cmd.Flags().GetString("description")
			}

			if err := a.svc.UpdateTodo(ctx, task); err != nil {
				return fmt.Errorf("update task: %w", err)
			}

			fmt.Printf("Updated task #%d: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")

	return cmd
}
