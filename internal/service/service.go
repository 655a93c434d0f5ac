package service

import (
	"context"
	"io"

	"roulette_sentinel/internal/model"

	"github.com/pkg/errors"
)

var (
	ErrUnauthenticated    = errors.New("user id not found in context")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserExists         = errors.New("user already exists")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionStopped     = errors.New("session is stopped")
)

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
}

// SessionService Живая игра по стратегии. Пользователь берется из контекста запроса
type SessionService interface {
	Start(ctx context.Context, req model.StartSession) (*model.Session, error)
	Spin(ctx context.Context, number int) (*model.LiveSpin, error)
	Stats(ctx context.Context) (*model.SessionStats, error)
	Stop(ctx context.Context) (*model.Session, error)
	Export(ctx context.Context, w io.Writer) error
	Analytics(ctx context.Context, lastN int) (*model.Analytics, error)
}

type SimulationService interface {
	Run(ctx context.Context, req model.SimulationRequest) (*model.SimulationResult, error)
}
