package session

import (
	"context"
	"time"

	"roulette_sentinel/internal/config"
	"roulette_sentinel/internal/metrics"
	"roulette_sentinel/internal/middleware"
	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/internal/service/risk"
	"roulette_sentinel/internal/service/shield"
	"roulette_sentinel/internal/service/simulator"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/pkg/errors"
)

// Deps Зависимости сервиса живых сессий
type Deps struct {
	TxManager   trm.Manager
	SessionRepo repository.SessionRepository
	SpinRepo    repository.SpinRepository
	Formula     *shield.Formula
	Strategy    config.StrategyConfig
	Limits      risk.Limits
	Metrics     *metrics.Metrics
}

type serv struct {
	txManager   trm.Manager
	sessionRepo repository.SessionRepository
	spinRepo    repository.SpinRepository
	formula     *shield.Formula
	strategy    config.StrategyConfig
	limits      risk.Limits
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewService(deps Deps) service.SessionService {
	return &serv{
		txManager:   deps.TxManager,
		sessionRepo: deps.SessionRepo,
		spinRepo:    deps.SpinRepo,
		formula:     deps.Formula,
		strategy:    deps.Strategy,
		limits:      deps.Limits,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

func userID(ctx context.Context) (int, error) {
	id, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return 0, service.ErrUnauthenticated
	}
	return id, nil
}

// activeSession Активная сессия пользователя.
// Если есть только завершенная - ErrSessionStopped, если нет никакой - ErrNoActiveSession
func (s *serv) activeSession(ctx context.Context, uid int) (*model.Session, error) {
	sess, err := s.sessionRepo.GetActiveSession(ctx, uid)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err = s.sessionRepo.GetLastSession(ctx, uid); err == nil {
		return nil, service.ErrSessionStopped
	}
	return nil, service.ErrNoActiveSession
}

// lastSession Последняя сессия пользователя, активная или завершенная
func (s *serv) lastSession(ctx context.Context, uid int) (*model.Session, error) {
	sess, err := s.sessionRepo.GetLastSession(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, service.ErrNoActiveSession
		}
		return nil, err
	}
	return sess, nil
}

// restoreDriver Драйвер, продолжающий сессию с сохраненного состояния.
// Окно нулей восстанавливается по последним спинам сессии.
// Вторым значением возвращается число уже сыгранных раундов
func (s *serv) restoreDriver(ctx context.Context, sess *model.Session, source simulator.OutcomeSource) (*simulator.Driver, int, error) {
	numbers, err := s.spinRepo.LastNumbers(ctx, sess.ID, risk.WindowSize)
	if err != nil {
		return nil, 0, err
	}
	played, err := s.spinRepo.CountSpins(ctx, sess.ID)
	if err != nil {
		return nil, 0, err
	}

	window := make([]bool, len(numbers))
	for i, n := range numbers {
		window[i] = n == 0
	}

	snap := risk.Snapshot{
		InitialBank: sess.InitialBank,
		CurrentBank: sess.CurrentBank,
		BaseStake:   sess.BaseStake,
		LossStreak:  sess.Streak,
		ZeroWindow:  window,
		Reserve:     sess.Reserve,
	}

	d, err := simulator.New(
		simulator.Config{InitialBank: sess.InitialBank, BaseStake: sess.BaseStake, Limits: s.limits},
		s.formula,
		source,
		simulator.WithState(snap),
		simulator.WithStartRound(played),
	)
	if err != nil {
		return nil, 0, err
	}

	return d, played, nil
}
