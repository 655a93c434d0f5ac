package model

// NumberProperties Свойства выпавшего числа
type NumberProperties struct {
	Number int
	IsZero bool
	Color  Color
	Parity string // even/odd
	Range  string // low/high
	Dozen  int    // 0 для зеро
	Column int    // 0 для зеро
}

// Distribution Распределение по зонам
type Distribution struct {
	Dozens   map[int]int
	Columns  map[int]int
	Colors   map[Color]int
	Parity   map[string]int
	Ranges   map[string]int
	Analyzed int
}

// Frequency Фактическая и теоретическая частота
type Frequency struct {
	Count       int
	Actual      float64
	Theoretical float64
	Deviation   float64
}

// Deviation Отклонения от теоретических вероятностей
type Deviation struct {
	Colors  map[Color]Frequency
	Zero    Frequency
	Dozens  map[int]Frequency
	Columns map[int]Frequency
}

// Analytics - аналитика по истории сессии
type Analytics struct {
	Distribution  Distribution
	Deviation     *Deviation // nil, если спинов нет
	SinceRed      int
	SinceZero     int
	SpinsAnalyzed int
}
