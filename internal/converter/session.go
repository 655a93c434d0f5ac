package converter

import (
	"fmt"
	"strings"

	dto "roulette_sentinel/internal/api/dto/session"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/pkg/money"
)

func ToStartSession(req dto.StartRequest) model.StartSession {
	return model.StartSession{
		InitialBank: req.InitialBank,
		BaseStake:   req.BaseStake,
	}
}

func ToSessionResponse(s model.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           s.ID,
		StrategyName: s.StrategyName,
		InitialBank:  s.InitialBank,
		CurrentBank:  s.CurrentBank,
		BaseStake:    s.BaseStake,
		ProfitLoss:   money.Round2(s.CurrentBank - s.InitialBank),
		Streak:       s.Streak,
		ZeroCount:    s.ZeroCount,
		Reserve:      s.Reserve,
		IsActive:     s.IsActive,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
	}
}

func ToRoundResponse(r model.Round) dto.RoundResponse {
	return dto.RoundResponse{
		Index:        r.Index,
		Number:       r.Number,
		Color:        string(r.Color),
		IsZero:       r.IsZero,
		Stake:        r.Stake,
		NetWin:       r.NetWin,
		BankBefore:   r.BankBefore,
		BankAfter:    r.BankAfter,
		StreakBefore: r.StreakBefore,
		ZerosBefore:  r.ZerosBefore,
		RiskIndex:    r.RiskIndex,
		BufferFactor: r.BufferFactor,
	}
}

func ToRoundsResponse(rounds []model.Round) []dto.RoundResponse {
	out := make([]dto.RoundResponse, len(rounds))
	for i, r := range rounds {
		out[i] = ToRoundResponse(r)
	}
	return out
}

func ToSpinResponse(res *model.LiveSpin) dto.SpinResponse {
	out := dto.SpinResponse{
		Session:     ToSessionResponse(res.Session),
		Status:      string(res.Status),
		StopReasons: res.Flags.Names(),
		Message:     StatusMessage(res.Status, res.Flags),
	}
	if res.Round != nil {
		r := ToRoundResponse(*res.Round)
		out.Round = &r
	}
	return out
}

func ToStatsResponse(stats *model.SessionStats) dto.StatsResponse {
	return dto.StatsResponse{
		Session:     ToSessionResponse(stats.Session),
		NextStake:   stats.NextStake,
		Rounds:      stats.Rounds,
		StopReasons: stats.Flags.Names(),
	}
}

// StatusMessage - сообщение для игрока с названиями сработавших условий
func StatusMessage(status model.Status, flags model.StopFlags) string {
	switch status {
	case model.StatusStoppedPre, model.StatusStoppedPost:
		return fmt.Sprintf("autostop: %s", strings.Join(flags.Names(), ", "))
	case model.StatusBankrupt:
		return "bank is exhausted"
	case model.StatusRunning:
		return "continue"
	default:
		return string(status)
	}
}

func ToAnalyticsResponse(a *model.Analytics) dto.AnalyticsResponse {
	out := dto.AnalyticsResponse{
		Distribution: dto.DistributionResponse{
			Dozens:   a.Distribution.Dozens,
			Columns:  a.Distribution.Columns,
			Colors:   colorKeys(a.Distribution.Colors),
			Parity:   a.Distribution.Parity,
			Ranges:   a.Distribution.Ranges,
			Analyzed: a.Distribution.Analyzed,
		},
		SinceRed:      a.SinceRed,
		SinceZero:     a.SinceZero,
		SpinsAnalyzed: a.SpinsAnalyzed,
	}

	if d := a.Deviation; d != nil {
		colors := make(map[string]dto.FrequencyResponse, len(d.Colors))
		for c, f := range d.Colors {
			colors[string(c)] = toFrequency(f)
		}
		out.Deviation = &dto.DeviationResponse{
			Colors:  colors,
			Zero:    toFrequency(d.Zero),
			Dozens:  toFrequencies(d.Dozens),
			Columns: toFrequencies(d.Columns),
		}
	}

	return out
}

func colorKeys(in map[model.Color]int) map[string]int {
	out := make(map[string]int, len(in))
	for c, n := range in {
		out[string(c)] = n
	}
	return out
}

func toFrequency(f model.Frequency) dto.FrequencyResponse {
	return dto.FrequencyResponse{
		Count:       f.Count,
		Actual:      f.Actual,
		Theoretical: f.Theoretical,
		Deviation:   f.Deviation,
	}
}

func toFrequencies(in map[int]model.Frequency) map[int]dto.FrequencyResponse {
	out := make(map[int]dto.FrequencyResponse, len(in))
	for k, f := range in {
		out[k] = toFrequency(f)
	}
	return out
}
