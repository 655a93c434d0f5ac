package simulation

import "roulette_sentinel/internal/api/dto/session"

type SimulateRequest struct {
	InitialBank   float64 `json:"initial_bank" validate:"gte=0"`
	BaseStake     float64 `json:"base_stake" validate:"gte=0"`
	Rounds        int     `json:"rounds" validate:"gte=0,lte=1000000"`
	Seed          *int64  `json:"seed"`
	IncludeRounds bool    `json:"include_rounds"`
}

type SummaryResponse struct {
	RunID          string   `json:"run_id"`
	Status         string   `json:"status"`
	StopReasons    []string `json:"stop_reasons,omitempty"`
	Rounds         int      `json:"rounds"`
	InitialBank    float64  `json:"initial_bank"`
	FinalBank      float64  `json:"final_bank"`
	ProfitLoss     float64  `json:"profit_loss"`
	ROI            float64  `json:"roi"`
	Wins           int      `json:"wins"`
	Losses         int      `json:"losses"`
	Zeros          int      `json:"zeros"`
	Skipped        int      `json:"skipped"`
	MaxLossStreak  int      `json:"max_loss_streak"`
	MaxDrawdown    float64  `json:"max_drawdown"`
	MaxDrawdownPct float64  `json:"max_drawdown_pct"`
	ReserveAdded   float64  `json:"reserve_added"`
	ReserveSpent   float64  `json:"reserve_spent"`
	FinalReserve   float64  `json:"final_reserve"`
	DurationMs     int64    `json:"duration_ms"`
}

type SimulateResponse struct {
	Summary SummaryResponse         `json:"summary"`
	Rounds  []session.RoundResponse `json:"rounds,omitempty"`
}
