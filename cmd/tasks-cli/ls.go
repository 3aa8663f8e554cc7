package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DaniarKamaev/Tasks/internal/core"
)

func lsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List all tasks, newest first",
		Long: `List every task in the store, newest first.

On a first run with an empty store the list is seeded from the
configured remote source; disable with seed.enabled=false in the
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.LoadTasks(cmd.Context()); err != nil {
				return err
			}

			if asJSON {
				tasks := make([]core.Task, 0, a.svc.NumberOfTodos())
				for i := 0; i < a.svc.NumberOfTodos(); i++ {
					if task, err := a.svc.Todo(i); err == nil {
						tasks = append(tasks, task)
					}
				}
				out, err := json.MarshalIndent(tasks, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			a.printTasks()
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}
