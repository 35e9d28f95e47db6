package commands

import (
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/chordgen-api/internal/config"
	"github.com/Conceptual-Machines/chordgen-api/internal/server"
)

func newServeCmd(version string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			return server.Run(cmd.Context(), cfg, version)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default $PORT or 8080)")
	return cmd
}
