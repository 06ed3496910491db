package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KeremDpdo/research-publication-dashboard/internal/app"
	"github.com/KeremDpdo/research-publication-dashboard/internal/infrastructure"
)

func newServeCmd(c *cli) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP analysis API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				c.cfg.Server.Port = port
				if err := c.cfg.Validate(); err != nil {
					return err
				}
			}

			logger, err := infrastructure.InitializeLogger(c.cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			telemetry, err := infrastructure.InitializeTelemetry(c.cfg.Telemetry, logger)
			if err != nil {
				return err
			}

			a, err := app.NewApplication(c.cfg, logger, telemetry)
			if err != nil {
				_ = telemetry.Shutdown(cmd.Context())
				return fmt.Errorf("failed to create application: %w", err)
			}
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port override")
	return cmd
}
