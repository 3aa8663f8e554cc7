package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DaniarKamaev/Tasks/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks to json, csv or pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.svc.LoadTasks(ctx); err != nil {
				return err
			}

			data, err := export.NewExporter(a.store).Export(ctx, format)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Printf("Exported %d tasks to %s\n", a.store.Count(ctx), outPath)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "json", "Export format (json, csv, pdf)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}
