package model

import "time"

// Status Состояние прогона после раунда
type Status string

const (
	StatusRunning     Status = "running"
	StatusStoppedPre  Status = "stopped_pre"  // Автостоп до ставки
	StatusStoppedPost Status = "stopped_post" // Автостоп после ставки
	StatusBankrupt    Status = "bankrupt"
	StatusCompleted   Status = "completed" // Исчерпан лимит раундов
	StatusExhausted   Status = "exhausted" // Источник исходов больше не дает чисел
)

// Terminal - true для всех статусов, кроме running
func (s Status) Terminal() bool {
	return s != StatusRunning
}

// Stopped - true, если прогон остановлен автостопом
func (s Status) Stopped() bool {
	return s == StatusStoppedPre || s == StatusStoppedPost
}

// Названия условий автостопа
const (
	FlagLossStreak = "loss_streak_limit"
	FlagZeroCount  = "zero_count_limit"
	FlagDrawdown   = "drawdown_limit"
)

// StopFlags Условия автостопа, каждое вычисляется независимо
type StopFlags struct {
	LossStreak bool
	ZeroCount  bool
	Drawdown   bool
}

// Any - сработало хотя бы одно условие
func (f StopFlags) Any() bool {
	return f.LossStreak || f.ZeroCount || f.Drawdown
}

// Names - названия сработавших условий
func (f StopFlags) Names() []string {
	names := make([]string, 0, 3)
	if f.LossStreak {
		names = append(names, FlagLossStreak)
	}
	if f.ZeroCount {
		names = append(names, FlagZeroCount)
	}
	if f.Drawdown {
		names = append(names, FlagDrawdown)
	}
	return names
}

// Color Цвет сектора
type Color string

const (
	ColorNone  Color = ""
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Round - неизменяемая запись об одном раунде
type Round struct {
	Index        int
	Number       int
	IsZero       bool
	Color        Color
	Stake        float64
	NetWin       float64
	BankBefore   float64
	BankAfter    float64
	StreakBefore int
	ZerosBefore  int
	RiskIndex    float64
	BufferFactor float64
}

// Summary Итоги прогона
type Summary struct {
	RunID          string
	Status         Status
	Flags          StopFlags
	Rounds         int
	InitialBank    float64
	FinalBank      float64
	ProfitLoss     float64
	ROI            float64
	Wins           int
	Losses         int
	Zeros          int
	Skipped        int // Раунды с нулевой ставкой
	MaxLossStreak  int
	MaxDrawdown    float64
	MaxDrawdownPct float64
	ReserveAdded   float64
	ReserveSpent   float64
	FinalReserve   float64
	Duration       time.Duration
}

// SimulationRequest - параметры симуляции
type SimulationRequest struct {
	InitialBank   float64
	BaseStake     float64
	Rounds        int
	Seed          *int64
	IncludeRounds bool
}

// SimulationResult - итог симуляции и (опционально) история раундов
type SimulationResult struct {
	Summary Summary
	Rounds  []Round
}
