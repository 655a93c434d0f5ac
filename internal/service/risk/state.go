package risk

import (
	"roulette_sentinel/internal/model"
	"roulette_sentinel/pkg/money"
)

// State Состояние рисков одной сессии: банк, серия, окно нулей, zero-буфер и флаги автостопа.
// Не потокобезопасен, принадлежит одному драйверу.
type State struct {
	limits Limits

	initialBank float64
	currentBank float64
	baseStake   float64

	lossStreak int
	zeroWindow []bool
	zeroCount  int
	reserve    float64

	flags model.StopFlags
}

// Change Движение zero-буфера за один переход
type Change struct {
	ReserveAdded float64
	Compensation float64
}

// Snapshot Сохраняемое состояние для возобновления сессии
type Snapshot struct {
	InitialBank float64
	CurrentBank float64
	BaseStake   float64
	LossStreak  int
	ZeroWindow  []bool // От старых к новым
	Reserve     float64
}

// ZeroCount Число нулей в окне снимка
func (snap Snapshot) ZeroCount() int {
	window := snap.ZeroWindow
	if len(window) > WindowSize {
		window = window[len(window)-WindowSize:]
	}

	count := 0
	for _, z := range window {
		if z {
			count++
		}
	}
	return count
}

// NewState Создать состояние с начальным банком и базовой ставкой
func NewState(initialBank, baseStake float64, limits Limits) *State {
	s := &State{limits: limits}
	s.Reset(initialBank, baseStake)
	return s
}

// Reset Сбрасывает состояние к начальным значениям новой сессии
func (s *State) Reset(initialBank, baseStake float64) {
	s.initialBank = money.Round2(initialBank)
	s.currentBank = s.initialBank
	s.baseStake = money.Round2(baseStake)
	s.lossStreak = 0
	s.zeroWindow = make([]bool, 0, WindowSize+1)
	s.zeroCount = 0
	s.reserve = 0
	s.flags = model.StopFlags{}
}

// Restore Восстанавливает состояние из снимка.
// Окно обрезается до последних WindowSize значений, флаги пересчитываются
func (s *State) Restore(snap Snapshot) {
	s.Reset(snap.InitialBank, snap.BaseStake)
	s.currentBank = money.Round2(snap.CurrentBank)
	s.lossStreak = max(snap.LossStreak, 0)
	s.reserve = max(money.Round2(snap.Reserve), 0)

	window := snap.ZeroWindow
	if len(window) > WindowSize {
		window = window[len(window)-WindowSize:]
	}
	s.zeroWindow = append(s.zeroWindow, window...)
	s.recountZeros()
	s.checkStopConditions()
}

// Snapshot Копия состояния для сохранения
func (s *State) Snapshot() Snapshot {
	window := make([]bool, len(s.zeroWindow))
	copy(window, s.zeroWindow)

	return Snapshot{
		InitialBank: s.initialBank,
		CurrentBank: s.currentBank,
		BaseStake:   s.baseStake,
		LossStreak:  s.lossStreak,
		ZeroWindow:  window,
		Reserve:     s.reserve,
	}
}

// Apply Единственный переход состояния после раунда.
// bankBefore - банк до списания ставки, netWin - чистый выигрыш (0 при проигрыше)
func (s *State) Apply(isZero bool, stake, netWin, bankBefore float64) Change {
	var change Change

	stake = max(money.Round2(stake), 0)
	netWin = max(money.Round2(netWin), 0)

	// 1. Окно нулей
	s.zeroWindow = append(s.zeroWindow, isZero)
	if len(s.zeroWindow) > WindowSize {
		s.zeroWindow = s.zeroWindow[1:]
	}
	s.recountZeros()

	// 2. Банк до ставки
	s.currentBank = money.Round2(bankBefore)

	if netWin > 0 {
		// 3. Выигрыш: пополняем zero-буфер
		s.currentBank += netWin
		s.lossStreak = 0
		change.ReserveAdded = money.Round2(netWin * s.limits.ReserveRate)
		s.reserve = money.Round2(s.reserve + change.ReserveAdded)
	} else {
		// 4. Проигрыш, при зеро часть ставки возвращается из буфера
		s.currentBank -= stake
		s.lossStreak++
		if isZero {
			change.Compensation = money.Round2(min(stake*s.limits.CompensationRate, s.reserve))
			s.currentBank += change.Compensation
			s.reserve = money.Round2(s.reserve - change.Compensation)
		}
	}

	// 5.
	s.currentBank = money.Round2(s.currentBank)

	// 6.
	s.checkStopConditions()

	return change
}

// ShouldStop Сработало ли хотя бы одно условие автостопа
func (s *State) ShouldStop() bool {
	return s.flags.Any()
}

func (s *State) Flags() model.StopFlags {
	return s.flags
}

func (s *State) InitialBank() float64 {
	return s.initialBank
}

func (s *State) CurrentBank() float64 {
	return s.currentBank
}

func (s *State) BaseStake() float64 {
	return s.baseStake
}

func (s *State) LossStreak() int {
	return s.lossStreak
}

func (s *State) ZeroCount() int {
	return s.zeroCount
}

func (s *State) Reserve() float64 {
	return s.reserve
}

// Drawdown Текущая доля просадки относительно начального банка
func (s *State) Drawdown() float64 {
	if s.initialBank <= 0 {
		return 0
	}
	return (s.initialBank - s.currentBank) / s.initialBank
}

func (s *State) recountZeros() {
	count := 0
	for _, z := range s.zeroWindow {
		if z {
			count++
		}
	}
	s.zeroCount = count
}

func (s *State) checkStopConditions() {
	l := s.limits

	s.flags.LossStreak = l.MaxLossStreak > 0 && s.lossStreak >= l.MaxLossStreak
	s.flags.ZeroCount = l.MaxZeros > 0 && s.zeroCount >= l.MaxZeros

	switch {
	case l.DrawdownLimit <= 0:
		s.flags.Drawdown = false
	case s.initialBank > 0:
		s.flags.Drawdown = s.Drawdown() >= l.DrawdownLimit
	default:
		// Начальный банк был 0 или меньше, считаем просадкой уход в минус
		s.flags.Drawdown = s.currentBank < 0
	}
}
