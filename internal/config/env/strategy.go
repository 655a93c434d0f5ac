package env

import (
	"os"

	"roulette_sentinel/internal/config"
	"roulette_sentinel/internal/model"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type strategyYAML struct {
	Name        string  `yaml:"name"`
	InitialBank float64 `yaml:"initial_bank"`
	BaseStake   float64 `yaml:"base_stake"`
	Rounds      int     `yaml:"rounds"`
	Seed        *int64  `yaml:"seed"`
}

type riskYAML struct {
	MaxLossStreak    int     `yaml:"max_loss_streak"`
	MaxZeros         int     `yaml:"max_zeros"`
	DrawdownLimit    float64 `yaml:"drawdown_limit"`
	ReserveRate      float64 `yaml:"reserve_rate"`
	CompensationRate float64 `yaml:"compensation_rate"`
}

type fileYAML struct {
	Strategy strategyYAML `yaml:"strategy"`
	Risk     riskYAML     `yaml:"risk"`
}

// Значения, если ключ отсутствует в файле
func defaultFile() fileYAML {
	return fileYAML{
		Strategy: strategyYAML{
			Name:        model.DefaultStrategyName,
			InitialBank: 1000,
			BaseStake:   10,
			Rounds:      1000,
		},
		Risk: riskYAML{
			MaxLossStreak:    15,
			MaxZeros:         4,
			DrawdownLimit:    0.20,
			ReserveRate:      0.05,
			CompensationRate: 0.50,
		},
	}
}

func readYAML(path string) (fileYAML, error) {
	cfg := defaultFile()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}

	return cfg, nil
}

type strategyConfig struct {
	s strategyYAML
}

// NewStrategyConfigFromYAML - секция strategy из config.yaml
func NewStrategyConfigFromYAML(path string) (config.StrategyConfig, error) {
	f, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	s := f.Strategy
	switch {
	case s.InitialBank <= 0:
		return nil, errors.Errorf("strategy.initial_bank must be positive, got %v", s.InitialBank)
	case s.BaseStake <= 0:
		return nil, errors.Errorf("strategy.base_stake must be positive, got %v", s.BaseStake)
	case s.Rounds < 0:
		return nil, errors.Errorf("strategy.rounds must not be negative, got %d", s.Rounds)
	}
	if s.Name == "" {
		s.Name = model.DefaultStrategyName
	}

	return &strategyConfig{s: s}, nil
}

func (c *strategyConfig) Name() string         { return c.s.Name }
func (c *strategyConfig) InitialBank() float64 { return c.s.InitialBank }
func (c *strategyConfig) BaseStake() float64   { return c.s.BaseStake }
func (c *strategyConfig) Rounds() int          { return c.s.Rounds }

func (c *strategyConfig) Seed() (int64, bool) {
	if c.s.Seed == nil {
		return 0, false
	}
	return *c.s.Seed, true
}

type riskConfig struct {
	r riskYAML
}

// NewRiskConfigFromYAML - секция risk из config.yaml
func NewRiskConfigFromYAML(path string) (config.RiskConfig, error) {
	f, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	r := f.Risk
	for name, v := range map[string]float64{
		"drawdown_limit":    r.DrawdownLimit,
		"reserve_rate":      r.ReserveRate,
		"compensation_rate": r.CompensationRate,
	} {
		if v < 0 || v > 1 {
			return nil, errors.Errorf("risk.%s must be within [0, 1], got %v", name, v)
		}
	}

	return &riskConfig{r: r}, nil
}

func (c *riskConfig) MaxLossStreak() int        { return c.r.MaxLossStreak }
func (c *riskConfig) MaxZeros() int             { return c.r.MaxZeros }
func (c *riskConfig) DrawdownLimit() float64    { return c.r.DrawdownLimit }
func (c *riskConfig) ReserveRate() float64      { return c.r.ReserveRate }
func (c *riskConfig) CompensationRate() float64 { return c.r.CompensationRate }
