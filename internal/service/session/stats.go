package session

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/simulator"
)

// Stats Состояние последней сессии и ставка, которую стратегия сделает следующей
func (s *serv) Stats(ctx context.Context) (*model.SessionStats, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.lastSession(ctx, uid)
	if err != nil {
		return nil, err
	}

	d, played, err := s.restoreDriver(ctx, sess, simulator.NewReplaySource(nil))
	if err != nil {
		return nil, err
	}

	stats := &model.SessionStats{
		Session: *sess,
		Flags:   d.Summary().Flags,
		Rounds:  played,
	}
	if sess.IsActive {
		stats.NextStake = d.NextStake()
	}

	return stats, nil
}
