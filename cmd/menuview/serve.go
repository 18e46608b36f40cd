package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mchmarny/menuview/pkg/config"
	"github.com/mchmarny/menuview/pkg/logger"
	"github.com/mchmarny/menuview/pkg/menu"
	"github.com/mchmarny/menuview/pkg/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var (
		file  string
		host  string
		port  int
		rps   float64
		burst int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Publish a menu file at /menu",
		Long:  "Publishes the items of a JSON or YAML menu file at GET /menu.\nThe file is re-read on every request.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetDefaultLoggerWithLevel(cmd.ErrOrStderr(), appName, version, cfg.LogLevel)

			if file == "" {
				return errors.New("--file is required")
			}

			// Fail fast on a file that can never be published.
			if _, err := menu.Load(file); err != nil {
				return fmt.Errorf("invalid menu file: %w", err)
			}

			return menu.Serve(cmd.Context(), menu.FileSource(file),
				server.WithHost(host),
				server.WithPort(port),
				server.WithRateLimit(rps, burst),
			)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Menu file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&host, "host", server.DefaultHost, "Interface to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", server.DefaultPort, "Port to run the server on")
	cmd.Flags().Float64Var(&rps, "rate", 0, "Requests per second allowed, 0 disables limiting")
	cmd.Flags().IntVar(&burst, "burst", 1, "Burst size when rate limiting")

	return cmd
}
