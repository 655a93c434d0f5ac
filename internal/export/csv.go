package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"roulette_sentinel/internal/model"

	"github.com/pkg/errors"
)

var spinHeader = []string{"round", "number", "stake", "net_win", "bank_after", "is_zero", "time"}

var roundHeader = []string{
	"round", "number", "color", "stake", "net_win", "bank_before", "bank_after",
	"streak_before", "zeros_before", "risk_index", "buffer_factor",
}

// WriteSpins - CSV со спинами живой сессии
func WriteSpins(w io.Writer, spins []model.Spin) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(spinHeader); err != nil {
		return errors.Wrap(err, "write header")
	}

	for _, s := range spins {
		err := cw.Write([]string{
			strconv.Itoa(s.Round),
			strconv.Itoa(s.Number),
			money(s.Stake),
			money(s.NetWin),
			money(s.BankAfter),
			strconv.FormatBool(s.IsZero),
			s.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return errors.Wrapf(err, "write round %d", s.Round)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRounds - CSV с записями раундов симуляции
func WriteRounds(w io.Writer, rounds []model.Round) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(roundHeader); err != nil {
		return errors.Wrap(err, "write header")
	}

	for _, r := range rounds {
		err := cw.Write([]string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Number),
			string(r.Color),
			money(r.Stake),
			money(r.NetWin),
			money(r.BankBefore),
			money(r.BankAfter),
			strconv.Itoa(r.StreakBefore),
			strconv.Itoa(r.ZerosBefore),
			strconv.FormatFloat(r.RiskIndex, 'f', 4, 64),
			strconv.FormatFloat(r.BufferFactor, 'f', 4, 64),
		})
		if err != nil {
			return errors.Wrapf(err, "write round %d", r.Index)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRoundsFile - CSV с записями раундов в файл.
// Ошибка закрытия файла тоже возвращается: на ней может всплыть несброшенная запись
func WriteRoundsFile(path string, rounds []model.Round) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}

	return writeAndClose(f, rounds)
}

func writeAndClose(wc io.WriteCloser, rounds []model.Round) error {
	err := WriteRounds(wc, rounds)
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "close csv")
	}
	return err
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
