package simulator

import (
	"context"
	"testing"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/shield"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, bank, base float64, numbers []int, opts ...Option) *Driver {
	t.Helper()

	cfg := Config{InitialBank: bank, BaseStake: base, Limits: risk.DefaultLimits()}
	d, err := New(cfg, shield.NewFormula(), NewReplaySource(numbers), opts...)
	require.NoError(t, err)
	return d
}

func repeat(n, times int) []int {
	out := make([]int, times)
	for i := range out {
		out[i] = n
	}
	return out
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []Config{
		{InitialBank: 0, BaseStake: 10},
		{InitialBank: -100, BaseStake: 10},
		{InitialBank: 1000, BaseStake: 0},
		{InitialBank: 1000, BaseStake: -1},
	}

	for _, cfg := range tests {
		_, err := New(cfg, shield.NewFormula(), NewRandomSource(1))
		assert.True(t, errors.Is(err, ErrInvalidConfig), "%+v", cfg)
	}

	_, err := New(Config{InitialBank: 1000, BaseStake: 10}, shield.NewFormula(), nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestSingleWinCompletes(t *testing.T) {
	d := newDriver(t, 1000, 10, []int{1})

	summary := d.Run(1)

	assert.Equal(t, model.StatusCompleted, summary.Status)
	assert.Equal(t, 1, summary.Rounds)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, 1010.00, summary.FinalBank)
	assert.Equal(t, 10.00, summary.ProfitLoss)
	assert.Equal(t, 1.00, summary.ROI)
	assert.Equal(t, 0.50, summary.ReserveAdded)
	assert.Equal(t, 0.50, summary.FinalReserve)
	assert.NotEmpty(t, summary.RunID)

	assert.Equal(t, []model.Round{{
		Index:        1,
		Number:       1,
		Color:        model.ColorRed,
		Stake:        10,
		NetWin:       10,
		BankBefore:   1000,
		BankAfter:    1010,
		RiskIndex:    1,
		BufferFactor: 1,
	}}, d.Records())
}

func TestZeroCountStopsAfterBet(t *testing.T) {
	d := newDriver(t, 1000, 10, repeat(0, 6))

	summary := d.Run(100)

	assert.Equal(t, model.StatusStoppedPost, summary.Status)
	assert.Equal(t, model.StopFlags{ZeroCount: true}, summary.Flags)
	assert.Equal(t, 4, summary.Rounds)
	assert.Equal(t, 4, summary.Zeros)
	assert.Equal(t, 4, summary.Losses)
	assert.Equal(t, 4, summary.MaxLossStreak)
	assert.Equal(t, 956.67, summary.FinalBank)
	assert.Equal(t, -43.33, summary.ProfitLoss)
	assert.Equal(t, 43.33, summary.MaxDrawdown)

	records := d.Records()
	stakes := make([]float64, len(records))
	for i, r := range records {
		stakes[i] = r.Stake
		assert.Equal(t, i+1, r.Index)
		assert.Equal(t, i, r.ZerosBefore)
		assert.Equal(t, i, r.StreakBefore)
	}
	assert.Equal(t, []float64{10, 9.19, 8.47, 15.67}, stakes)
	assert.Equal(t, 0.98, records[1].BufferFactor)
	assert.Equal(t, 1.0667, records[1].RiskIndex)

	// После остановки раунды больше не играются
	rec, status := d.Step()
	assert.Nil(t, rec)
	assert.Equal(t, model.StatusStoppedPost, status)
	assert.Len(t, d.Records(), 4)
}

func TestDrawdownStopsRun(t *testing.T) {
	d := newDriver(t, 1000, 10, repeat(2, 50))

	summary := d.Run(50)

	assert.Equal(t, model.StatusStoppedPost, summary.Status)
	assert.Equal(t, model.StopFlags{Drawdown: true}, summary.Flags)
	assert.Equal(t, 8, summary.Rounds)
	assert.GreaterOrEqual(t, summary.MaxDrawdownPct, 20.0)
}

func TestLossStreakStopsRun(t *testing.T) {
	d := newDriver(t, 1e6, 10, repeat(2, 50))

	summary := d.Run(50)

	assert.Equal(t, model.StatusStoppedPost, summary.Status)
	assert.Equal(t, model.StopFlags{LossStreak: true}, summary.Flags)
	assert.Equal(t, 15, summary.Rounds)
	assert.Equal(t, 15, summary.MaxLossStreak)
}

func TestBankruptcyWithDisabledLimits(t *testing.T) {
	cfg := Config{InitialBank: 15, BaseStake: 10, Limits: risk.Limits{}}
	d, err := New(cfg, shield.NewFormula(), NewReplaySource(repeat(2, 10)))
	require.NoError(t, err)

	summary := d.Run(10)

	assert.Equal(t, model.StatusBankrupt, summary.Status)
	assert.Equal(t, 2, summary.Rounds)
	assert.Zero(t, summary.FinalBank)
	assert.Equal(t, 5.00, d.Records()[1].Stake) // ставка ограничена банком
}

func TestLongStreakStillBetsWithoutStreakLimit(t *testing.T) {
	snap := risk.Snapshot{InitialBank: 1000, CurrentBank: 1000, BaseStake: 10, LossStreak: 94}
	d, err := New(Config{InitialBank: 1000, BaseStake: 10, Limits: risk.Limits{}},
		shield.NewFormula(), NewReplaySource([]int{2}), WithState(snap))
	require.NoError(t, err)

	assert.Equal(t, 1000.00, d.NextStake())

	rec, status := d.Step()
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusBankrupt, status)
	assert.Equal(t, 1000.00, rec.Stake)
	assert.Equal(t, 94, rec.StreakBefore)
	assert.Zero(t, rec.BankAfter)
}

func TestStopBeforeBetWhenAutostopAlreadyHolds(t *testing.T) {
	snap := risk.Snapshot{InitialBank: 1000, CurrentBank: 1000, BaseStake: 10, LossStreak: 15}
	src := NewReplaySource([]int{1})
	d, err := New(Config{InitialBank: 1000, BaseStake: 10, Limits: risk.DefaultLimits()},
		shield.NewFormula(), src, WithState(snap))
	require.NoError(t, err)

	assert.Zero(t, d.NextStake())

	rec, status := d.Step()
	assert.Nil(t, rec)
	assert.Equal(t, model.StatusStoppedPre, status)

	summary := d.Summary()
	assert.Equal(t, 0, summary.Rounds)
	assert.Equal(t, model.StopFlags{LossStreak: true}, summary.Flags)

	// Число из источника не израсходовано
	n, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestZeroStakeRoundStillPlays(t *testing.T) {
	limits := risk.DefaultLimits()
	limits.MaxZeros = 0
	snap := risk.Snapshot{InitialBank: 1000, CurrentBank: 1000, BaseStake: 10, ZeroWindow: make([]bool, risk.WindowSize)}
	for i := range snap.ZeroWindow {
		snap.ZeroWindow[i] = true
	}

	d, err := New(Config{InitialBank: 1000, BaseStake: 10, Limits: limits},
		shield.NewFormula(), NewReplaySource([]int{1, 1}), WithState(snap))
	require.NoError(t, err)

	rec, status := d.Step()
	require.NotNil(t, rec)
	assert.Equal(t, model.StatusRunning, status)
	assert.Zero(t, rec.Stake)
	assert.Zero(t, rec.NetWin)
	assert.Equal(t, 1000.00, rec.BankAfter)
	assert.Equal(t, 50, rec.ZerosBefore)
	assert.Zero(t, rec.BufferFactor)

	summary := d.Summary()
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Wins)
	assert.Zero(t, summary.Losses)
	assert.Equal(t, 1, d.Snapshot().LossStreak)
}

func TestReserveAccounting(t *testing.T) {
	d := newDriver(t, 1000, 10, []int{1, 0})

	summary := d.Run(2)

	assert.Equal(t, model.StatusCompleted, summary.Status)
	assert.Equal(t, 0.50, summary.ReserveAdded)
	assert.Equal(t, 0.50, summary.ReserveSpent)
	assert.Zero(t, summary.FinalReserve)
	assert.Equal(t, 1000.50, summary.FinalBank)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, 1, summary.Losses)
	assert.Equal(t, 1, summary.Zeros)

	second := d.Records()[1]
	assert.Equal(t, 1010.00, second.BankBefore)
	assert.Equal(t, 1000.50, second.BankAfter)
	assert.Equal(t, 0, second.StreakBefore)
}

func TestSourceExhaustion(t *testing.T) {
	d := newDriver(t, 1000, 10, []int{1})

	summary := d.Run(5)

	assert.Equal(t, model.StatusExhausted, summary.Status)
	assert.Equal(t, 1, summary.Rounds)
}

func TestStartRoundOffset(t *testing.T) {
	d := newDriver(t, 1000, 10, []int{5}, WithStartRound(10))

	rec, _ := d.Step()
	require.NotNil(t, rec)
	assert.Equal(t, 11, rec.Index)
}

func TestRecordsAreCopied(t *testing.T) {
	d := newDriver(t, 1000, 10, []int{1, 2})
	d.Run(2)

	records := d.Records()
	records[0].Stake = 999

	assert.Equal(t, 10.00, d.Records()[0].Stake)
}

func TestNoRoundsBudget(t *testing.T) {
	d := newDriver(t, 1000, 10, []int{1})

	summary := d.Run(0)

	assert.Equal(t, model.StatusCompleted, summary.Status)
	assert.Zero(t, summary.Rounds)
	assert.Equal(t, 1000.00, summary.FinalBank)
}

func TestSeededRunIsDeterministic(t *testing.T) {
	run := func() ([]model.Round, model.Summary) {
		cfg := Config{InitialBank: 10000, BaseStake: 10, Limits: risk.DefaultLimits()}
		d, err := New(cfg, shield.NewFormula(), NewRandomSource(20240601))
		require.NoError(t, err)
		s := d.Run(1000)
		s.RunID, s.Duration = "", 0
		return d.Records(), s
	}

	recordsA, summaryA := run()
	recordsB, summaryB := run()

	assert.Equal(t, recordsA, recordsB)
	assert.Equal(t, summaryA, summaryB)
	assert.NotEmpty(t, recordsA)
}

func TestRunInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		cfg := Config{InitialBank: 1000, BaseStake: 10, Limits: risk.DefaultLimits()}
		d, err := New(cfg, shield.NewFormula(), NewRandomSource(seed))
		require.NoError(t, err)

		summary := d.Run(2000)
		records := d.Records()

		require.Equal(t, len(records), summary.Rounds)
		require.Equal(t, summary.Rounds, summary.Wins+summary.Losses+summary.Skipped)
		for i, r := range records {
			require.Equal(t, i+1, r.Index)
			require.LessOrEqual(t, r.Stake, r.BankBefore)
			require.GreaterOrEqual(t, r.Stake, 0.0)
			if i > 0 {
				require.Equal(t, records[i-1].BankAfter, r.BankBefore)
			}
		}

		// Остановка по лимиту всегда срабатывает сразу, без лишней ставки
		if summary.Status.Stopped() {
			require.True(t, summary.Flags.Any())
		}
	}
}

func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDriver(t, 1000, 10, []int{1, 2, 3})
	summary, err := d.RunContext(ctx, 3)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, model.StatusRunning, summary.Status)
	assert.Zero(t, summary.Rounds)
}
