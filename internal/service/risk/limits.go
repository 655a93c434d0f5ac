package risk

// Пороговые значения риск-менеджмента по умолчанию
const (
	DefaultMaxLossStreak    = 15   // Проигрышей подряд
	DefaultMaxZeros         = 4    // Нулей за последние 50 спинов
	DefaultDrawdownLimit    = 0.20 // Доля просадки от начального банка
	DefaultReserveRate      = 0.05 // Доля выигрыша в zero-буфер
	DefaultCompensationRate = 0.50 // Доля проигранной ставки, возмещаемая при зеро

	// WindowSize Размер окна для подсчета нулей
	WindowSize = 50
)

// Limits Параметры автостопа и zero-буфера.
// Порог <= 0 отключает соответствующее условие автостопа.
type Limits struct {
	MaxLossStreak    int
	MaxZeros         int
	DrawdownLimit    float64
	ReserveRate      float64
	CompensationRate float64
}

// DefaultLimits Лимиты стратегии «Адаптивный Щит»
func DefaultLimits() Limits {
	return Limits{
		MaxLossStreak:    DefaultMaxLossStreak,
		MaxZeros:         DefaultMaxZeros,
		DrawdownLimit:    DefaultDrawdownLimit,
		ReserveRate:      DefaultReserveRate,
		CompensationRate: DefaultCompensationRate,
	}
}
