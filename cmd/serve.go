package cmd

import (
	"github.com/emrgen/cms/internal/config"
	"github.com/emrgen/cms/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the http server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			if port != "" {
				cfg.Server.HTTPPort = port
			}
			server.NewServer(cfg).Start()
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "", "http port (overrides server.http_port)")

	return command
}
