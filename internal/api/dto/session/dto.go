package session

import "time"

type StartRequest struct {
	InitialBank float64 `json:"initial_bank" validate:"gte=0"` // 0 - из config.yaml
	BaseStake   float64 `json:"base_stake" validate:"gte=0"`   // 0 - из config.yaml
}

type SpinRequest struct {
	Number *int `json:"number" validate:"required,min=0,max=36"` // Выпавшее число
}

type SessionResponse struct {
	ID           int64      `json:"id"`
	StrategyName string     `json:"strategy_name"`
	InitialBank  float64    `json:"initial_bank"`
	CurrentBank  float64    `json:"current_bank"`
	BaseStake    float64    `json:"base_stake"`
	ProfitLoss   float64    `json:"profit_loss"`
	Streak       int        `json:"streak"`
	ZeroCount    int        `json:"zero_count"`
	Reserve      float64    `json:"reserve"`
	IsActive     bool       `json:"is_active"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
}

type RoundResponse struct {
	Index        int     `json:"round"`
	Number       int     `json:"number"`
	Color        string  `json:"color,omitempty"`
	IsZero       bool    `json:"is_zero"`
	Stake        float64 `json:"stake"`
	NetWin       float64 `json:"net_win"`
	BankBefore   float64 `json:"bank_before"`
	BankAfter    float64 `json:"bank_after"`
	StreakBefore int     `json:"streak_before"`
	ZerosBefore  int     `json:"zeros_before"`
	RiskIndex    float64 `json:"risk_index"`
	BufferFactor float64 `json:"buffer_factor"`
}

type SpinResponse struct {
	Session     SessionResponse `json:"session"`
	Round       *RoundResponse  `json:"round,omitempty"` // Нет, если автостоп сработал до ставки
	Status      string          `json:"status"`
	StopReasons []string        `json:"stop_reasons,omitempty"`
	Message     string          `json:"message"`
}

type StatsResponse struct {
	Session     SessionResponse `json:"session"`
	NextStake   float64         `json:"next_stake"`
	Rounds      int             `json:"rounds"`
	StopReasons []string        `json:"stop_reasons,omitempty"`
}

type FrequencyResponse struct {
	Count       int     `json:"count"`
	Actual      float64 `json:"actual"`
	Theoretical float64 `json:"theoretical"`
	Deviation   float64 `json:"deviation"`
}

type DeviationResponse struct {
	Colors  map[string]FrequencyResponse `json:"colors"`
	Zero    FrequencyResponse            `json:"zero"`
	Dozens  map[int]FrequencyResponse    `json:"dozens"`
	Columns map[int]FrequencyResponse    `json:"columns"`
}

type DistributionResponse struct {
	Dozens   map[int]int    `json:"dozens"`
	Columns  map[int]int    `json:"columns"`
	Colors   map[string]int `json:"colors"`
	Parity   map[string]int `json:"parity"`
	Ranges   map[string]int `json:"ranges"`
	Analyzed int            `json:"analyzed"`
}

type AnalyticsResponse struct {
	Distribution  DistributionResponse `json:"distribution"`
	Deviation     *DeviationResponse   `json:"deviation,omitempty"`
	SinceRed      int                  `json:"spins_since_red"`
	SinceZero     int                  `json:"spins_since_zero"`
	SpinsAnalyzed int                  `json:"spins_analyzed"`
}
