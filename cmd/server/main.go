package main

import (
	"flag"

	"roulette_sentinel/internal/app"
	"roulette_sentinel/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to strategy config")
	flag.Parse()

	if err := app.NewApp(*configPath).Run(); err != nil {
		logger.Logger.Fatalf("server stopped: %v", err)
	}
}
