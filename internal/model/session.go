package model

import "time"

// DefaultStrategyName Название стратегии, под которой создаются сессии
const DefaultStrategyName = "Adaptive Shield"

// Session - игровая сессия пользователя
type Session struct {
	ID           int64
	UserID       int
	StrategyName string
	InitialBank  float64
	CurrentBank  float64
	BaseStake    float64
	Streak       int     // Серия проигрышей
	ZeroCount    int     // Нулей в окне последних 50 спинов
	Reserve      float64 // Zero-буфер
	IsActive     bool
	StartTime    time.Time
	LastUpdate   time.Time
	EndTime      *time.Time
}

// Spin - запись о спине, сохраненная в хранилище
type Spin struct {
	ID        int64
	SessionID int64
	Round     int
	Number    int
	Stake     float64
	NetWin    float64
	BankAfter float64
	IsZero    bool
	CreatedAt time.Time
}

// StartSession - параметры новой сессии
type StartSession struct {
	InitialBank float64
	BaseStake   float64
}

// SessionStats - состояние сессии для фронта
type SessionStats struct {
	Session   Session
	NextStake float64
	Flags     StopFlags
	Rounds    int
}

// LiveSpin - результат живого спина
type LiveSpin struct {
	Session Session
	Round   *Round // nil, если автостоп сработал до ставки
	Status  Status
	Flags   StopFlags
}
