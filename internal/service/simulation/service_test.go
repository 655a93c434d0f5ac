package simulation

import (
	"context"
	"testing"

	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/internal/service/simulator"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type strategyConfig struct {
	seed    int64
	hasSeed bool
}

func (strategyConfig) Name() string          { return model.DefaultStrategyName }
func (strategyConfig) InitialBank() float64  { return 1000 }
func (strategyConfig) BaseStake() float64    { return 10 }
func (strategyConfig) Rounds() int           { return 200 }
func (c strategyConfig) Seed() (int64, bool) { return c.seed, c.hasSeed }

func seed(v int64) *int64 { return &v }

func TestRunIsReproducibleWithSeed(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := NewService(shield.NewFormula(), strategyConfig{}, risk.DefaultLimits(), m)

	req := model.SimulationRequest{InitialBank: 5000, BaseStake: 5, Rounds: 500, Seed: seed(99), IncludeRounds: true}
	a, err := s.Run(context.Background(), req)
	require.NoError(t, err)
	b, err := s.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Rounds, b.Rounds)
	assert.Equal(t, a.Summary.FinalBank, b.Summary.FinalBank)
	assert.Equal(t, a.Summary.Status, b.Summary.Status)
	assert.NotEqual(t, a.Summary.RunID, b.Summary.RunID)
	assert.Len(t, a.Rounds, a.Summary.Rounds)

	assert.Equal(t, 2, testutil.CollectAndCount(m.SimulationROI))
	assert.Equal(t, float64(a.Summary.Rounds+b.Summary.Rounds),
		testutil.ToFloat64(m.RoundsPlayed.WithLabelValues(metrics.ModeSimulation)))
}

func TestRunUsesConfigDefaults(t *testing.T) {
	s := NewService(shield.NewFormula(), strategyConfig{seed: 1, hasSeed: true}, risk.DefaultLimits(),
		metrics.New(prometheus.NewRegistry()))

	res, err := s.Run(context.Background(), model.SimulationRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, res.Summary.InitialBank)
	assert.LessOrEqual(t, res.Summary.Rounds, 200)
	assert.Nil(t, res.Rounds)

	again, err := s.Run(context.Background(), model.SimulationRequest{})
	require.NoError(t, err)
	assert.Equal(t, res.Summary.FinalBank, again.Summary.FinalBank)
}

func TestRunRejectsInvalidRequest(t *testing.T) {
	s := NewService(shield.NewFormula(), strategyConfig{}, risk.DefaultLimits(), metrics.New(prometheus.NewRegistry()))

	for _, req := range []model.SimulationRequest{
		{InitialBank: -1},
		{BaseStake: -10},
		{Rounds: MaxRounds + 1},
		{Rounds: -1},
	} {
		_, err := s.Run(context.Background(), req)
		assert.True(t, errors.Is(err, simulator.ErrInvalidConfig), "%+v", req)
	}
}

func TestRunCancelled(t *testing.T) {
	s := NewService(shield.NewFormula(), strategyConfig{}, risk.DefaultLimits(), metrics.New(prometheus.NewRegistry()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, model.SimulationRequest{Seed: seed(1)})
	assert.True(t, errors.Is(err, context.Canceled))
}
