package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every task from the store",
		Long: `Delete every task. The next 'tasks ls' against the empty store
seeds the list again from the remote source (if seeding is enabled).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("this deletes all tasks; re-run with --yes to confirm")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			count := a.store.Count(ctx)
			if err := a.svc.Reset(ctx); err != nil {
				return fmt.Errorf("reset store: %w", err)
			}

			fmt.Printf("Deleted %d tasks.\n", count)
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Confirm the reset")

	return cmd
}
