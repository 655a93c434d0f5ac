package session

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Stop Завершает активную сессию пользователя
func (s *serv) Stop(ctx context.Context) (*model.Session, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	var sess *model.Session

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		sess, err = s.activeSession(ctx, uid)
		if err != nil {
			return err
		}

		now := s.now()
		if err = s.sessionRepo.EndSession(ctx, sess.ID, now); err != nil {
			return err
		}
		sess.IsActive = false
		sess.EndTime = &now
		sess.LastUpdate = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"user_id":     uid,
		"session_id":  sess.ID,
		"final_bank":  sess.CurrentBank,
		"profit_loss": sess.CurrentBank - sess.InitialBank,
	}).Info("session stopped by user")

	return sess, nil
}
