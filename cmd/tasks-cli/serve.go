package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/DaniarKamaev/Tasks/internal/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Long: `Run the HTTP API on the configured address. The store is
loaded (and seeded if empty) before the server starts accepting
requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.LoadTasks(cmd.Context()); err != nil {
				return err
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			gin.SetMode(gin.ReleaseMode)
			fmt.Printf("Listening on %s\n", addr)
			return web.NewServer(a.svc, a.log).Run(addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")

	return cmd
}
