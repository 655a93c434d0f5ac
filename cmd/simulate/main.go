package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"roulette_sentinel/internal/config/env"
	"roulette_sentinel/internal/converter"
	"roulette_sentinel/internal/export"
	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/internal/service/simulation"
	"roulette_sentinel/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to strategy config")
		bank       = flag.Float64("bank", 0, "initial bank (0 - from config)")
		base       = flag.Float64("base", 0, "base stake (0 - from config)")
		rounds     = flag.Int("rounds", 0, "round budget (0 - from config)")
		seed       = flag.Int64("seed", 0, "random seed (unset - from config or time)")
		csvPath    = flag.String("csv", "", "write round records to this CSV file")
		logLevel   = flag.String("log-level", "info", "debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(logger.Config{Level: *logLevel}); err != nil {
		logger.Logger.Fatalf("init logger: %v", err)
	}

	req := model.SimulationRequest{
		InitialBank:   *bank,
		BaseStake:     *base,
		Rounds:        *rounds,
		IncludeRounds: *csvPath != "",
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			req.Seed = seed
		}
	})

	if err := run(*configPath, req, *csvPath); err != nil {
		logger.Logger.Fatalf("simulation failed: %v", err)
	}
}

func run(configPath string, req model.SimulationRequest, csvPath string) error {
	strategy, err := env.NewStrategyConfigFromYAML(configPath)
	if err != nil {
		return err
	}
	riskCfg, err := env.NewRiskConfigFromYAML(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serv := simulation.NewService(
		shield.NewFormula(),
		strategy,
		converter.RiskConfigToLimits(riskCfg),
		metrics.New(prometheus.NewRegistry()),
	)

	res, err := serv.Run(ctx, req)
	if err != nil {
		return err
	}

	if csvPath == "" {
		return nil
	}

	if err = export.WriteRoundsFile(csvPath, res.Rounds); err != nil {
		return err
	}
	logger.Infof("%d rounds written to %s", len(res.Rounds), csvPath)

	return nil
}
