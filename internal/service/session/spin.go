package session

import (
	"context"

	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/roulette"
	"roulette_sentinel/internal/service/simulator"
	"roulette_sentinel/pkg/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Spin Живой раунд: выпавшее число проходит через тот же шаг драйвера, что и в симуляции.
// Спин и новое состояние сессии сохраняются в одной транзакции
func (s *serv) Spin(ctx context.Context, number int) (*model.LiveSpin, error) {
	if !roulette.Valid(number) {
		return nil, errors.Wrapf(roulette.ErrInvalidNumber, "got %d", number)
	}

	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	var res *model.LiveSpin

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		sess, err := s.activeSession(ctx, uid)
		if err != nil {
			return err
		}

		d, _, err := s.restoreDriver(ctx, sess, simulator.NewReplaySource([]int{number}))
		if err != nil {
			return err
		}

		rec, status := d.Step()
		now := s.now()

		// Автостоп до ставки: спин не записывается
		if rec != nil {
			_, err = s.spinRepo.AddSpin(ctx, &model.Spin{
				SessionID: sess.ID,
				Round:     rec.Index,
				Number:    rec.Number,
				Stake:     rec.Stake,
				NetWin:    rec.NetWin,
				BankAfter: rec.BankAfter,
				IsZero:    rec.IsZero,
				CreatedAt: now,
			})
			if err != nil {
				return err
			}

			snap := d.Snapshot()
			sess.CurrentBank = snap.CurrentBank
			sess.Streak = snap.LossStreak
			sess.ZeroCount = snap.ZeroCount()
			sess.Reserve = snap.Reserve
			sess.LastUpdate = now
			if err = s.sessionRepo.UpdateSession(ctx, sess); err != nil {
				return err
			}
		}

		if status.Terminal() {
			if err = s.sessionRepo.EndSession(ctx, sess.ID, now); err != nil {
				return err
			}
			sess.IsActive = false
			sess.EndTime = &now
		}

		res = &model.LiveSpin{
			Session: *sess,
			Round:   rec,
			Status:  status,
			Flags:   d.Summary().Flags,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Round != nil {
		s.metrics.ObserveRounds(metrics.ModeLive, 1)
	}
	if res.Status.Terminal() {
		s.metrics.ObserveFinish(metrics.ModeLive, res.Status, res.Flags)
		logger.WithFields(logrus.Fields{
			"user_id":    uid,
			"session_id": res.Session.ID,
			"status":     res.Status,
			"flags":      res.Flags.Names(),
			"bank":       res.Session.CurrentBank,
		}).Warn("session stopped")
	}

	return res, nil
}
