package session

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/service/roulette"
)

// Analytics Распределение и отклонения по числам последней сессии.
// lastN <= 0 - распределение по всей истории
func (s *serv) Analytics(ctx context.Context, lastN int) (*model.Analytics, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.lastSession(ctx, uid)
	if err != nil {
		return nil, err
	}

	spins, err := s.spinRepo.ListSpins(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	history := make([]int, len(spins))
	for i, sp := range spins {
		history[i] = sp.Number
	}

	return &model.Analytics{
		Distribution:  roulette.Distribution(history, lastN),
		Deviation:     roulette.Deviation(history),
		SinceRed:      roulette.NonEventStreak(history, roulette.IsRed),
		SinceZero:     roulette.NonEventStreak(history, roulette.IsZero),
		SpinsAnalyzed: len(history),
	}, nil
}
