package simulator

import (
	"math/rand"

	"roulette_sentinel/internal/service/roulette"

	"github.com/pkg/errors"
)

// ErrSourceExhausted Источник исходов больше не выдает чисел
var ErrSourceExhausted = errors.New("outcome source exhausted")

// OutcomeSource Источник выпавших чисел 0-36
type OutcomeSource interface {
	Next() (int, error)
}

type randomSource struct {
	rnd *rand.Rand
}

// NewRandomSource Равномерный генератор с фиксированным зерном,
// одинаковое зерно дает одинаковую последовательность
func NewRandomSource(seed int64) OutcomeSource {
	return &randomSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *randomSource) Next() (int, error) {
	return s.rnd.Intn(roulette.Pockets), nil
}

type replaySource struct {
	numbers []int
	pos     int
}

// NewReplaySource Воспроизводит заранее известную последовательность
func NewReplaySource(numbers []int) OutcomeSource {
	cp := make([]int, len(numbers))
	copy(cp, numbers)
	return &replaySource{numbers: cp}
}

func (s *replaySource) Next() (int, error) {
	if s.pos >= len(s.numbers) {
		return 0, ErrSourceExhausted
	}
	n := s.numbers[s.pos]
	s.pos++
	if !roulette.Valid(n) {
		return 0, errors.Wrapf(roulette.ErrInvalidNumber, "replay position %d: %d", s.pos, n)
	}
	return n, nil
}
