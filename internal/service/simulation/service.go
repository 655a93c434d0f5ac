package simulation

import (
	"context"
	"time"

	"roulette_sentinel/internal/config"
	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/internal/service/simulator"
	"roulette_sentinel/pkg/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MaxRounds Ограничение длины одного прогона
const MaxRounds = 1_000_000

type serv struct {
	formula  *shield.Formula
	strategy config.StrategyConfig
	limits   risk.Limits
	metrics  *metrics.Metrics
}

func NewService(
	formula *shield.Formula,
	strategy config.StrategyConfig,
	limits risk.Limits,
	m *metrics.Metrics,
) service.SimulationService {
	return &serv{
		formula:  formula,
		strategy: strategy,
		limits:   limits,
		metrics:  m,
	}
}

// Run Прогон стратегии на случайных числах.
// Незаданные поля запроса берутся из config.yaml, зерно - из запроса, конфига или текущего времени
func (s *serv) Run(ctx context.Context, req model.SimulationRequest) (*model.SimulationResult, error) {
	req = s.withDefaults(req)
	if req.Rounds < 0 || req.Rounds > MaxRounds {
		return nil, errors.Wrapf(simulator.ErrInvalidConfig, "rounds must be within [0, %d], got %d", MaxRounds, req.Rounds)
	}

	d, err := simulator.New(
		simulator.Config{InitialBank: req.InitialBank, BaseStake: req.BaseStake, Limits: s.limits},
		s.formula,
		simulator.NewRandomSource(*req.Seed),
	)
	if err != nil {
		return nil, err
	}

	summary, err := d.RunContext(ctx, req.Rounds)
	if err != nil {
		return nil, errors.Wrap(err, "simulation interrupted")
	}

	s.metrics.ObserveSimulation(summary)
	logger.WithFields(logrus.Fields{
		"run_id":      summary.RunID,
		"seed":        *req.Seed,
		"status":      summary.Status,
		"flags":       summary.Flags.Names(),
		"rounds":      summary.Rounds,
		"final_bank":  summary.FinalBank,
		"roi":         summary.ROI,
		"max_streak":  summary.MaxLossStreak,
		"drawdown_pc": summary.MaxDrawdownPct,
	}).Info("simulation finished")

	res := &model.SimulationResult{Summary: summary}
	if req.IncludeRounds {
		res.Rounds = d.Records()
	}

	return res, nil
}

func (s *serv) withDefaults(req model.SimulationRequest) model.SimulationRequest {
	if req.InitialBank == 0 {
		req.InitialBank = s.strategy.InitialBank()
	}
	if req.BaseStake == 0 {
		req.BaseStake = s.strategy.BaseStake()
	}
	if req.Rounds == 0 {
		req.Rounds = s.strategy.Rounds()
	}
	if req.Seed == nil {
		seed, ok := s.strategy.Seed()
		if !ok {
			seed = time.Now().UnixNano()
		}
		req.Seed = &seed
	}
	return req
}
