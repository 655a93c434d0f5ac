package session

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/middleware"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository/memory_repo"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/roulette"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/internal/service/simulator"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type strategyConfig struct{}

func (strategyConfig) Name() string         { return model.DefaultStrategyName }
func (strategyConfig) InitialBank() float64 { return 1000 }
func (strategyConfig) BaseStake() float64   { return 10 }
func (strategyConfig) Rounds() int          { return 100 }
func (strategyConfig) Seed() (int64, bool)  { return 0, false }

type fixture struct {
	store   *memory_repo.Store
	tx      *memory_repo.TxManager
	metrics *metrics.Metrics
	serv    service.SessionService
}

func newFixture(limits risk.Limits) *fixture {
	f := &fixture{
		store:   memory_repo.NewStore(),
		tx:      memory_repo.NewTxManager(),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	f.serv = f.withLimits(limits)
	return f
}

// withLimits Второй сервис поверх того же хранилища
func (f *fixture) withLimits(limits risk.Limits) service.SessionService {
	return NewService(Deps{
		TxManager:   f.tx,
		SessionRepo: f.store.Sessions(),
		SpinRepo:    f.store.Spins(),
		Formula:     shield.NewFormula(),
		Strategy:    strategyConfig{},
		Limits:      limits,
		Metrics:     f.metrics,
	})
}

func userCtx(id int) context.Context {
	return middleware.WithUserID(context.Background(), id)
}

func spinAll(t *testing.T, s service.SessionService, ctx context.Context, numbers ...int) []*model.LiveSpin {
	t.Helper()
	out := make([]*model.LiveSpin, 0, len(numbers))
	for _, n := range numbers {
		res, err := s.Spin(ctx, n)
		require.NoError(t, err)
		out = append(out, res)
	}
	return out
}

func TestStartUsesConfiguredDefaults(t *testing.T) {
	f := newFixture(risk.DefaultLimits())

	sess, err := f.serv.Start(userCtx(1), model.StartSession{})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, sess.InitialBank)
	assert.Equal(t, 1000.0, sess.CurrentBank)
	assert.Equal(t, 10.0, sess.BaseStake)
	assert.Equal(t, model.DefaultStrategyName, sess.StrategyName)
	assert.True(t, sess.IsActive)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionsStarted))
}

func TestStartRejectsNegativeValues(t *testing.T) {
	f := newFixture(risk.DefaultLimits())

	_, err := f.serv.Start(userCtx(1), model.StartSession{InitialBank: -5, BaseStake: 10})
	assert.True(t, errors.Is(err, simulator.ErrInvalidConfig))
}

func TestStartEndsPreviousSession(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)

	first, err := f.serv.Start(ctx, model.StartSession{InitialBank: 500, BaseStake: 5})
	require.NoError(t, err)
	spinAll(t, f.serv, ctx, 1)

	second, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	old, err := f.store.Sessions().GetSession(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	stats, err := f.serv.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, stats.Session.ID)
	assert.Zero(t, stats.Rounds)
}

func TestSpinWinUpdatesSession(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	_, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)

	res := spinAll(t, f.serv, ctx, 1)[0]

	require.NotNil(t, res.Round)
	assert.Equal(t, model.StatusRunning, res.Status)
	assert.Equal(t, 1, res.Round.Index)
	assert.Equal(t, 10.0, res.Round.Stake)
	assert.Equal(t, 1010.0, res.Session.CurrentBank)
	assert.Equal(t, 0.5, res.Session.Reserve)
	assert.Zero(t, res.Session.Streak)

	stats, err := f.serv.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 10.0, stats.NextStake)
	assert.False(t, stats.Flags.Any())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RoundsPlayed.WithLabelValues(metrics.ModeLive)))
}

func TestConcurrentSpinsGetDistinctRounds(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	sess, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)

	const spins = 10
	var wg sync.WaitGroup
	errs := make(chan error, spins)
	for i := 0; i < spins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.serv.Spin(ctx, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	list, err := f.store.Spins().ListSpins(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, list, spins)
	for i, sp := range list {
		assert.Equal(t, i+1, sp.Round)
	}

	stats, err := f.serv.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, stats.Session.CurrentBank)
	assert.Equal(t, 5.0, stats.Session.Reserve)
}

func TestSpinZerosTriggerAutostop(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	_, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)

	results := spinAll(t, f.serv, ctx, 0, 0, 0, 0)

	for _, res := range results[:3] {
		assert.Equal(t, model.StatusRunning, res.Status)
	}
	last := results[3]
	assert.Equal(t, model.StatusStoppedPost, last.Status)
	assert.Equal(t, model.StopFlags{ZeroCount: true}, last.Flags)
	assert.Equal(t, 956.67, last.Session.CurrentBank)
	assert.Equal(t, 4, last.Session.ZeroCount)
	assert.Equal(t, 4, last.Session.Streak)
	assert.False(t, last.Session.IsActive)

	_, err = f.serv.Spin(ctx, 5)
	assert.True(t, errors.Is(err, service.ErrSessionStopped))

	stats, err := f.serv.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.NextStake)
	assert.Equal(t, 4, stats.Rounds)
	assert.Equal(t, model.StopFlags{ZeroCount: true}, stats.Flags)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Autostops.WithLabelValues(model.FlagZeroCount)))
}

func TestSpinStopsBeforeBetWhenLimitAlreadyHolds(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	_, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)
	spinAll(t, f.serv, ctx, 2, 2, 2)

	limits := risk.DefaultLimits()
	limits.MaxLossStreak = 3
	strict := f.withLimits(limits)

	res, err := strict.Spin(ctx, 1)
	require.NoError(t, err)

	assert.Nil(t, res.Round)
	assert.Equal(t, model.StatusStoppedPre, res.Status)
	assert.Equal(t, model.StopFlags{LossStreak: true}, res.Flags)
	assert.False(t, res.Session.IsActive)

	count, err := f.store.Spins().CountSpins(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestLiveSpinsMatchSimulation(t *testing.T) {
	src := simulator.NewRandomSource(7)
	numbers := make([]int, 300)
	for i := range numbers {
		n, err := src.Next()
		require.NoError(t, err)
		numbers[i] = n
	}

	d, err := simulator.New(simulator.Config{InitialBank: 1000, BaseStake: 10, Limits: risk.DefaultLimits()},
		shield.NewFormula(), simulator.NewReplaySource(numbers))
	require.NoError(t, err)
	summary := d.Run(len(numbers))
	want := d.Records()

	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	_, err = f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)

	got := make([]model.Round, 0, len(want))
	var last *model.LiveSpin
	for _, n := range numbers {
		res, err := f.serv.Spin(ctx, n)
		if errors.Is(err, service.ErrSessionStopped) {
			break
		}
		require.NoError(t, err)
		got = append(got, *res.Round)
		last = res
	}

	assert.Equal(t, want, got)
	require.NotNil(t, last)
	assert.Equal(t, summary.FinalBank, last.Session.CurrentBank)
	assert.Equal(t, summary.FinalReserve, last.Session.Reserve)
	if summary.Status.Terminal() && summary.Status != model.StatusCompleted {
		assert.Equal(t, summary.Status, last.Status)
	}
}

func TestErrorsWithoutSession(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)

	_, err := f.serv.Spin(ctx, 3)
	assert.True(t, errors.Is(err, service.ErrNoActiveSession))

	_, err = f.serv.Stats(ctx)
	assert.True(t, errors.Is(err, service.ErrNoActiveSession))

	_, err = f.serv.Stop(ctx)
	assert.True(t, errors.Is(err, service.ErrNoActiveSession))

	_, err = f.serv.Spin(context.Background(), 3)
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))

	_, err = f.serv.Spin(ctx, 37)
	assert.True(t, errors.Is(err, roulette.ErrInvalidNumber))
}

func TestStop(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	_, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)

	sess, err := f.serv.Stop(ctx)
	require.NoError(t, err)
	assert.False(t, sess.IsActive)
	require.NotNil(t, sess.EndTime)

	_, err = f.serv.Stop(ctx)
	assert.True(t, errors.Is(err, service.ErrSessionStopped))
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	_, err := f.serv.Start(userCtx(1), model.StartSession{})
	require.NoError(t, err)

	_, err = f.serv.Spin(userCtx(2), 1)
	assert.True(t, errors.Is(err, service.ErrNoActiveSession))
}

func TestExport(t *testing.T) {
	f := newFixture(risk.DefaultLimits())
	ctx := userCtx(1)
	_, err := f.serv.Start(ctx, model.StartSession{})
	require.NoError(t, err)
	spinAll(t, f.serv, ctx, 1, 0)

	var buf bytes.Buffer
	require.NoError(t, f.serv.Export(ctx, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,1,10.00,10.00,1010.00,false,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,0,10.00,0.00,1000.50,true,"))
}

func TestAnalytics(t *testing.T) {
	f := newFixture(risk.Limits{})
	ctx := userCtx(1)
	_, err := f.serv.Start(ctx, model.StartSession{InitialBank: 100000, BaseStake: 1})
	require.NoError(t, err)
	spinAll(t, f.serv, ctx, 32, 15, 0, 26, 3, 35, 12, 28, 7, 29)

	a, err := f.serv.Analytics(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 10, a.SpinsAnalyzed)
	assert.Equal(t, 7, a.SinceZero)
	assert.Equal(t, 1, a.SinceRed)
	require.NotNil(t, a.Deviation)
	assert.Equal(t, 0.1, a.Deviation.Zero.Actual)
	assert.Equal(t, 9, a.Distribution.Colors[model.ColorRed]+a.Distribution.Colors[model.ColorBlack])
}
