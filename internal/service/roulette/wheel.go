package roulette

import (
	"roulette_sentinel/internal/model"

	"github.com/pkg/errors"
)

const (
	// Zero Единственный зеро европейской рулетки
	Zero = 0
	// MaxNumber Максимальное число на колесе
	MaxNumber = 36
	// Pockets Количество секторов колеса
	Pockets = MaxNumber + 1
)

// ErrInvalidNumber Число вне диапазона 0-36
var ErrInvalidNumber = errors.New("invalid roulette number")

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Valid - число есть на колесе
func Valid(n int) bool {
	return n >= Zero && n <= MaxNumber
}

// ColorOf Цвет сектора, для зеро - ColorNone
func ColorOf(n int) model.Color {
	switch {
	case n == Zero || !Valid(n):
		return model.ColorNone
	case redNumbers[n]:
		return model.ColorRed
	default:
		return model.ColorBlack
	}
}

// Properties Возвращает свойства выпавшего числа
func Properties(n int) (model.NumberProperties, error) {
	if !Valid(n) {
		return model.NumberProperties{}, errors.Wrapf(ErrInvalidNumber, "number %d", n)
	}

	props := model.NumberProperties{
		Number: n,
		IsZero: n == Zero,
		Color:  ColorOf(n),
	}
	if props.IsZero {
		return props, nil
	}

	props.Parity = "odd"
	if n%2 == 0 {
		props.Parity = "even"
	}
	props.Range = "low"
	if n > 18 {
		props.Range = "high"
	}
	props.Dozen = (n-1)/12 + 1
	props.Column = (n-1)%3 + 1

	return props, nil
}

// BetRule Правило расчета чистого выигрыша по ставке
type BetRule interface {
	Name() string
	NetWin(stake float64, n int) float64
}

type redEvenMoney struct{}

// RedEvenMoney Ставка на красное, выплата 1:1, зеро и черное проигрывают
func RedEvenMoney() BetRule {
	return redEvenMoney{}
}

func (redEvenMoney) Name() string {
	return "red"
}

func (redEvenMoney) NetWin(stake float64, n int) float64 {
	if stake <= 0 || ColorOf(n) != model.ColorRed {
		return 0
	}
	return stake
}
