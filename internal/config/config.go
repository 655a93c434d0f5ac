package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// StrategyConfig Параметры стратегии по умолчанию
type StrategyConfig interface {
	Name() string
	InitialBank() float64
	BaseStake() float64
	Rounds() int
	// Seed - зерно генератора для симуляций, false если не задано
	Seed() (int64, bool)
}

// RiskConfig Пороги автостопа и параметры резерва.
// Порог <= 0 отключает соответствующее условие
type RiskConfig interface {
	MaxLossStreak() int
	MaxZeros() int
	DrawdownLimit() float64
	ReserveRate() float64
	CompensationRate() float64
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	// DSN - пустая строка означает хранилище в памяти
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

type LoggerConfig interface {
	Level() string
	File() string
}
