package simulator

import (
	"context"
	"time"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/roulette"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/pkg/money"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Как часто RunContext проверяет отмену
const ctxCheckEvery = 256

// ErrInvalidConfig Начальный банк или базовая ставка не положительны
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config Параметры прогона
type Config struct {
	InitialBank float64
	BaseStake   float64
	Limits      risk.Limits
}

// Option Дополнительная настройка драйвера
type Option func(d *Driver)

// WithState Продолжить с сохраненного состояния рисков (живая сессия)
func WithState(snap risk.Snapshot) Option {
	return func(d *Driver) {
		d.state.Restore(snap)
	}
}

// WithStartRound Номер последнего уже сыгранного раунда
func WithStartRound(n int) Option {
	return func(d *Driver) {
		d.round = max(n, 0)
	}
}

// WithBetRule Заменить правило ставки (по умолчанию красное 1:1)
func WithBetRule(rule roulette.BetRule) Option {
	return func(d *Driver) {
		d.rule = rule
	}
}

// Driver Прогон стратегии по раундам. Не потокобезопасен
type Driver struct {
	cfg     Config
	formula *shield.Formula
	source  OutcomeSource
	rule    roulette.BetRule
	state   *risk.State

	round   int
	status  model.Status
	records []model.Round
	summary model.Summary
	started time.Time
}

// New Создать драйвер. Единственная ошибка - некорректная конфигурация
func New(cfg Config, formula *shield.Formula, source OutcomeSource, opts ...Option) (*Driver, error) {
	if cfg.InitialBank <= 0 || cfg.BaseStake <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "initial bank %.2f, base stake %.2f", cfg.InitialBank, cfg.BaseStake)
	}
	if formula == nil || source == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "formula and outcome source are required")
	}

	d := &Driver{
		cfg:     cfg,
		formula: formula,
		source:  source,
		rule:    roulette.RedEvenMoney(),
		state:   risk.NewState(cfg.InitialBank, cfg.BaseStake, cfg.Limits),
		status:  model.StatusRunning,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.summary = model.Summary{
		RunID:       uuid.NewString(),
		Status:      model.StatusRunning,
		InitialBank: d.state.InitialBank(),
	}

	return d, nil
}

// Step Играет один раунд.
// Возвращает добавленную запись (nil, если раунд не состоялся) и статус после раунда
func (d *Driver) Step() (*model.Round, model.Status) {
	if d.status.Terminal() {
		return nil, d.status
	}

	// 1. Проверка автостопа до ставки
	if d.state.ShouldStop() {
		return nil, d.finish(model.StatusStoppedPre)
	}

	streakBefore := d.state.LossStreak()
	zerosBefore := d.state.ZeroCount()
	bankBefore := d.state.CurrentBank()

	// 2. Расчет ставки, не больше текущего банка
	stake := d.formula.Stake(d.state.BaseStake(), streakBefore, zerosBefore)
	stake = money.Round2(min(stake, bankBefore))
	if stake < 0 {
		stake = 0
	}

	n, err := d.source.Next()
	if err != nil {
		return nil, d.finish(model.StatusExhausted)
	}

	isZero := n == roulette.Zero

	// 3. Нулевая ставка: спин учитывается в окне и серии, но без денег
	if stake <= 0 {
		d.state.Apply(isZero, 0, 0, bankBefore)
		rec := d.appendRound(n, 0, 0, bankBefore, streakBefore, zerosBefore)
		d.summary.Skipped++
		d.track(isZero)
		return rec, d.status
	}

	// 4-5. Ставка и переход состояния
	netWin := d.rule.NetWin(stake, n)
	change := d.state.Apply(isZero, stake, netWin, bankBefore)
	d.summary.ReserveAdded = money.Round2(d.summary.ReserveAdded + change.ReserveAdded)
	d.summary.ReserveSpent = money.Round2(d.summary.ReserveSpent + change.Compensation)

	rec := d.appendRound(n, stake, netWin, bankBefore, streakBefore, zerosBefore)
	if netWin > 0 {
		d.summary.Wins++
	} else {
		d.summary.Losses++
	}
	d.track(isZero)

	// 6. Проверка после ставки
	switch {
	case d.state.ShouldStop():
		return rec, d.finish(model.StatusStoppedPost)
	case d.state.CurrentBank() <= 0:
		return rec, d.finish(model.StatusBankrupt)
	}

	return rec, d.status
}

// Run Играет до остановки или до исчерпания лимита раундов
func (d *Driver) Run(rounds int) model.Summary {
	summary, _ := d.RunContext(context.Background(), rounds)
	return summary
}

// RunContext То же, что Run, но прерывается отменой контекста.
// При отмене статус остается running, возвращаются итоги на момент остановки
func (d *Driver) RunContext(ctx context.Context, rounds int) (model.Summary, error) {
	for played := 0; played < rounds; played++ {
		if played%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return d.Summary(), err
			}
		}
		if _, status := d.Step(); status.Terminal() {
			return d.Summary(), nil
		}
	}

	if !d.status.Terminal() {
		d.finish(model.StatusCompleted)
	}

	return d.Summary(), nil
}

// Records Копия истории раундов в порядке номеров
func (d *Driver) Records() []model.Round {
	out := make([]model.Round, len(d.records))
	copy(out, d.records)
	return out
}

// Summary Итоги на текущий момент
func (d *Driver) Summary() model.Summary {
	s := d.summary
	s.Status = d.status
	s.Flags = d.state.Flags()
	s.Rounds = len(d.records)
	s.FinalBank = d.state.CurrentBank()
	s.FinalReserve = d.state.Reserve()
	s.ProfitLoss = money.Round2(s.FinalBank - s.InitialBank)
	if s.InitialBank > 0 {
		s.ROI = money.Round2(s.ProfitLoss / s.InitialBank * 100)
		s.MaxDrawdownPct = money.Round2(s.MaxDrawdown / s.InitialBank * 100)
	}
	return s
}

// Snapshot Состояние рисков для сохранения
func (d *Driver) Snapshot() risk.Snapshot {
	return d.state.Snapshot()
}

// Status Текущий статус прогона
func (d *Driver) Status() model.Status {
	return d.status
}

// NextStake Ставка, которую драйвер сделает в следующем раунде
func (d *Driver) NextStake() float64 {
	if d.status.Terminal() || d.state.ShouldStop() {
		return 0
	}
	stake := d.formula.Stake(d.state.BaseStake(), d.state.LossStreak(), d.state.ZeroCount())
	return money.Round2(max(min(stake, d.state.CurrentBank()), 0))
}

func (d *Driver) appendRound(n int, stake, netWin, bankBefore float64, streakBefore, zerosBefore int) *model.Round {
	d.round++
	d.records = append(d.records, model.Round{
		Index:        d.round,
		Number:       n,
		IsZero:       n == roulette.Zero,
		Color:        roulette.ColorOf(n),
		Stake:        stake,
		NetWin:       netWin,
		BankBefore:   bankBefore,
		BankAfter:    d.state.CurrentBank(),
		StreakBefore: streakBefore,
		ZerosBefore:  zerosBefore,
		RiskIndex:    money.Round4(shield.RiskIndex(streakBefore)),
		BufferFactor: money.Round4(shield.BufferFactor(zerosBefore)),
	})
	rec := d.records[len(d.records)-1]
	return &rec
}

func (d *Driver) track(isZero bool) {
	if isZero {
		d.summary.Zeros++
	}
	d.summary.MaxLossStreak = max(d.summary.MaxLossStreak, d.state.LossStreak())
	if drawdown := money.Round2(d.state.InitialBank() - d.state.CurrentBank()); drawdown > d.summary.MaxDrawdown {
		d.summary.MaxDrawdown = drawdown
	}
}

func (d *Driver) finish(status model.Status) model.Status {
	d.status = status
	d.summary.Duration = time.Since(d.started)
	return status
}
