package converter

import (
	dto "roulette_sentinel/internal/api/dto/simulation"
	"roulette_sentinel/internal/model"
)

func ToSimulationRequest(req dto.SimulateRequest) model.SimulationRequest {
	return model.SimulationRequest{
		InitialBank:   req.InitialBank,
		BaseStake:     req.BaseStake,
		Rounds:        req.Rounds,
		Seed:          req.Seed,
		IncludeRounds: req.IncludeRounds,
	}
}

func ToSummaryResponse(s model.Summary) dto.SummaryResponse {
	return dto.SummaryResponse{
		RunID:          s.RunID,
		Status:         string(s.Status),
		StopReasons:    s.Flags.Names(),
		Rounds:         s.Rounds,
		InitialBank:    s.InitialBank,
		FinalBank:      s.FinalBank,
		ProfitLoss:     s.ProfitLoss,
		ROI:            s.ROI,
		Wins:           s.Wins,
		Losses:         s.Losses,
		Zeros:          s.Zeros,
		Skipped:        s.Skipped,
		MaxLossStreak:  s.MaxLossStreak,
		MaxDrawdown:    s.MaxDrawdown,
		MaxDrawdownPct: s.MaxDrawdownPct,
		ReserveAdded:   s.ReserveAdded,
		ReserveSpent:   s.ReserveSpent,
		FinalReserve:   s.FinalReserve,
		DurationMs:     s.Duration.Milliseconds(),
	}
}

func ToSimulateResponse(res *model.SimulationResult) dto.SimulateResponse {
	out := dto.SimulateResponse{Summary: ToSummaryResponse(res.Summary)}
	if len(res.Rounds) > 0 {
		out.Rounds = ToRoundsResponse(res.Rounds)
	}
	return out
}
