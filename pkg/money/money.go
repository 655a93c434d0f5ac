package money

import "github.com/shopspring/decimal"

// exactDigits Число знаков, достаточное для точного двоичного значения float64 в денежном диапазоне
const exactDigits = -20

// Round2 - округление денежной суммы до копеек (2 знака после запятой).
// Округляется точное двоичное значение, половина идет к четному
func Round2(v float64) float64 {
	return round(v, 2)
}

// Round4 - округление коэффициентов для телеметрии
func Round4(v float64) float64 {
	return round(v, 4)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloatWithExponent(v, exactDigits).RoundBank(places).InexactFloat64()
}
