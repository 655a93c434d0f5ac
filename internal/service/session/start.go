package session

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/service/simulator"
	"roulette_sentinel/pkg/logger"
	"roulette_sentinel/pkg/money"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Start Начинает новую сессию. Активная сессия пользователя завершается.
// Нулевые банк и базовая ставка берутся из config.yaml
func (s *serv) Start(ctx context.Context, req model.StartSession) (*model.Session, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	bank, base := req.InitialBank, req.BaseStake
	if bank == 0 {
		bank = s.strategy.InitialBank()
	}
	if base == 0 {
		base = s.strategy.BaseStake()
	}
	if bank <= 0 || base <= 0 {
		return nil, errors.Wrapf(simulator.ErrInvalidConfig, "initial bank %.2f, base stake %.2f", bank, base)
	}

	now := s.now()
	sess := &model.Session{
		UserID:       uid,
		StrategyName: s.strategy.Name(),
		InitialBank:  money.Round2(bank),
		CurrentBank:  money.Round2(bank),
		BaseStake:    money.Round2(base),
		IsActive:     true,
		StartTime:    now,
		LastUpdate:   now,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Закрыть предыдущую активную сессию
		prev, err := s.sessionRepo.GetActiveSession(ctx, uid)
		switch {
		case err == nil:
			if err = s.sessionRepo.EndSession(ctx, prev.ID, now); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		// 2. Создать новую
		sess.ID, err = s.sessionRepo.CreateSession(ctx, sess)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SessionsStarted.Inc()
	logger.WithFields(logrus.Fields{
		"user_id":      uid,
		"session_id":   sess.ID,
		"initial_bank": sess.InitialBank,
		"base_stake":   sess.BaseStake,
	}).Info("session started")

	return sess, nil
}
