package main

import (
	"github.com/docunet-ai/docunet/backend/internal/config"
	"github.com/docunet-ai/docunet/backend/internal/server"
	"github.com/docunet-ai/docunet/backend/internal/util"
	"github.com/docunet-ai/docunet/backend/pkg/logger"
	"github.com/docunet-ai/docunet/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{})
		logger.Init(consoleLogger)
		logger.Fatal("Invalid configuration", "err", err)
	}

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	server.Init(cfg)
}
