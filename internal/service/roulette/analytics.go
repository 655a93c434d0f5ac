package roulette

import (
	"roulette_sentinel/internal/model"
	"roulette_sentinel/pkg/money"
)

// Теоретические вероятности европейской рулетки
const (
	probColor  = 18.0 / Pockets
	probZero   = 1.0 / Pockets
	probDozen  = 12.0 / Pockets
	probColumn = 12.0 / Pockets
)

// NonEventStreak - сколько последних спинов подряд событие не наступало.
// Числа вне колеса считаются ненаступлением события
func NonEventStreak(history []int, event func(model.NumberProperties) bool) int {
	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		props, err := Properties(history[i])
		if err == nil && event(props) {
			break
		}
		streak++
	}
	return streak
}

// IsRed Событие «выпало красное»
func IsRed(p model.NumberProperties) bool {
	return p.Color == model.ColorRed
}

// IsZero Событие «выпал зеро»
func IsZero(p model.NumberProperties) bool {
	return p.IsZero
}

// Distribution Распределение выпавших чисел по зонам за всю историю
// или за последние lastN спинов (lastN <= 0 - вся история)
func Distribution(history []int, lastN int) model.Distribution {
	if lastN > 0 && lastN < len(history) {
		history = history[len(history)-lastN:]
	}

	d := model.Distribution{
		Dozens:   make(map[int]int),
		Columns:  make(map[int]int),
		Colors:   make(map[model.Color]int),
		Parity:   make(map[string]int),
		Ranges:   make(map[string]int),
		Analyzed: len(history),
	}

	for _, n := range history {
		props, err := Properties(n)
		if err != nil || props.IsZero {
			continue
		}
		d.Dozens[props.Dozen]++
		d.Columns[props.Column]++
		d.Colors[props.Color]++
		d.Parity[props.Parity]++
		d.Ranges[props.Range]++
	}

	return d
}

// Deviation Отклонения фактических частот от теоретических.
// Для пустой истории возвращает nil
func Deviation(history []int) *model.Deviation {
	total := len(history)
	if total == 0 {
		return nil
	}

	dist := Distribution(history, 0)
	dev := &model.Deviation{
		Colors:  make(map[model.Color]model.Frequency, len(dist.Colors)),
		Dozens:  make(map[int]model.Frequency, len(dist.Dozens)),
		Columns: make(map[int]model.Frequency, len(dist.Columns)),
	}

	for color, count := range dist.Colors {
		dev.Colors[color] = frequency(count, total, probColor)
	}
	for dozen, count := range dist.Dozens {
		dev.Dozens[dozen] = frequency(count, total, probDozen)
	}
	for column, count := range dist.Columns {
		dev.Columns[column] = frequency(count, total, probColumn)
	}

	zeros := 0
	for _, n := range history {
		if n == Zero {
			zeros++
		}
	}
	dev.Zero = frequency(zeros, total, probZero)

	return dev
}

func frequency(count, total int, theoretical float64) model.Frequency {
	actual := float64(count) / float64(total)
	return model.Frequency{
		Count:       count,
		Actual:      money.Round4(actual),
		Theoretical: money.Round4(theoretical),
		Deviation:   money.Round4(actual - theoretical),
	}
}
