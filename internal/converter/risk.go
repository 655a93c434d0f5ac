package converter

import (
	"roulette_sentinel/internal/config"
	"roulette_sentinel/internal/service/risk"
)

// RiskConfigToLimits - пороги автостопа из конфигурации
func RiskConfigToLimits(cfg config.RiskConfig) risk.Limits {
	return risk.Limits{
		MaxLossStreak:    cfg.MaxLossStreak(),
		MaxZeros:         cfg.MaxZeros(),
		DrawdownLimit:    cfg.DrawdownLimit(),
		ReserveRate:      cfg.ReserveRate(),
		CompensationRate: cfg.CompensationRate(),
	}
}
