package main

import (
	"os"

	"github.com/emrgen/cms/internal/config"
	"github.com/emrgen/cms/internal/server"
	"github.com/sirupsen/logrus"
)

// debug runs the server with debug logging and a local sqlite database, without the CLI.
func main() {
	_ = os.Setenv("CMS_LOG_LEVEL", "debug")
	if os.Getenv("CMS_JWT_SECRET") == "" {
		_ = os.Setenv("CMS_JWT_SECRET", "debug-secret")
	}

	cfg := config.LoadConfig()
	if port := os.Getenv("HTTP_PORT"); port != "" {
		cfg.Server.HTTPPort = port
	}

	if err := server.Start(cfg); err != nil {
		logrus.Fatal(err)
	}
}
