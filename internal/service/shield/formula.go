package shield

import (
	"math"
	"sync"

	"roulette_sentinel/pkg/money"

	"github.com/shopspring/decimal"
)

const (
	// MaxFibIndex Последний индекс, значение которого помещается в float64
	MaxFibIndex = 1476
	// zeroWindow Размер окна, по которому считается количество нулей
	zeroWindow = 50
	// riskDivisor Делитель серии проигрышей в индексе риска
	riskDivisor = 15
)

// Formula Расчет ставки по стратегии «Адаптивный Щит».
// Таблица чисел последовательности растет по мере запросов и никогда не сбрасывается.
type Formula struct {
	mtx   sync.Mutex
	table []decimal.Decimal
}

// NewFormula Создать калькулятор ставок с пустой таблицей
func NewFormula() *Formula {
	return &Formula{
		table: []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1)},
	}
}

// Fib - значение последовательности для серии k:
// fib(0) = fib(1) = fib(2) = 1, fib(k) = fib(k-1) + fib(k-2).
// Члены хранятся точно, наружу отдается ближайший float64.
// Для k < 0 возвращает 0, для k > MaxFibIndex +Inf
func (f *Formula) Fib(k int) float64 {
	if k < 0 {
		return 0
	}
	if k > MaxFibIndex {
		return math.Inf(1)
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()

	for len(f.table) <= k {
		n := len(f.table)
		f.table = append(f.table, f.table[n-1].Add(f.table[n-2]))
	}

	return f.table[k].InexactFloat64()
}

// Stake - размер ставки:
// Bet = Base × Fib(streak) × BufferFactor / RiskIndex, округленный до копеек.
// Некорректный ввод дает нулевую ставку (раунд пропускается).
// При переполнении возвращает math.MaxFloat64, дальше ставка ограничивается банком
func (f *Formula) Stake(base float64, streak, zeroCount int) float64 {
	if base <= 0 || streak < 0 {
		return 0
	}
	if zeroCount < 0 || zeroCount > zeroWindow {
		return 0
	}

	bufferFactor := BufferFactor(zeroCount)
	if bufferFactor <= 0 {
		return 0
	}

	riskIndex := RiskIndex(streak)
	if riskIndex <= 0 {
		return 0
	}

	stake := base * f.Fib(streak) * bufferFactor / riskIndex
	if math.IsInf(stake, 1) {
		return math.MaxFloat64
	}

	return money.Round2(stake)
}

// BufferFactor Понижающий коэффициент по количеству нулей в окне
func BufferFactor(zeroCount int) float64 {
	return 1 - float64(zeroCount)/zeroWindow
}

// RiskIndex Индекс риска, растущий линейно с серией проигрышей
func RiskIndex(streak int) float64 {
	return 1 + float64(streak)/riskDivisor
}
