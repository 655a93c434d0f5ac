package roulette

import (
	"testing"

	"roulette_sentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleHistory = []int{10, 0, 25, 1, 14, 36, 10, 10, 2, 19, 0, 5, 23, 33, 1, 1, 10, 28, 17, 16}

func TestNonEventStreak(t *testing.T) {
	assert.Equal(t, 0, NonEventStreak(sampleHistory, IsRed))
	assert.Equal(t, 9, NonEventStreak(sampleHistory, IsZero))
	assert.Equal(t, 2, NonEventStreak([]int{10, 20, 5, 2, 4}, IsRed))
	assert.Equal(t, 0, NonEventStreak(nil, IsRed))
}

func TestDistributionLastN(t *testing.T) {
	d := Distribution(sampleHistory, 10)

	assert.Equal(t, 10, d.Analyzed)
	assert.Equal(t, map[model.Color]int{model.ColorRed: 5, model.ColorBlack: 4}, d.Colors)
}

func TestDistributionWholeHistory(t *testing.T) {
	d := Distribution(sampleHistory, 0)

	assert.Equal(t, len(sampleHistory), d.Analyzed)
	total := 0
	for _, c := range d.Dozens {
		total += c
	}
	assert.Equal(t, len(sampleHistory)-2, total) // без двух зеро
	assert.Equal(t, d.Parity["even"]+d.Parity["odd"], total)
	assert.Equal(t, d.Ranges["low"]+d.Ranges["high"], total)
}

func TestDeviation(t *testing.T) {
	assert.Nil(t, Deviation(nil))

	dev := Deviation(sampleHistory)
	require.NotNil(t, dev)

	assert.Equal(t, 2, dev.Zero.Count)
	assert.Equal(t, 0.1, dev.Zero.Actual)
	assert.Equal(t, 0.027, dev.Zero.Theoretical)
	assert.Equal(t, 0.073, dev.Zero.Deviation)
	assert.Contains(t, dev.Colors, model.ColorRed)
	assert.Contains(t, dev.Colors, model.ColorBlack)
	assert.Equal(t, 0.4865, dev.Colors[model.ColorRed].Theoretical)
}
