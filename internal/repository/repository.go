package repository

import (
	"context"
	"time"

	"roulette_sentinel/internal/model"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) (id int64, err error)
	// GetActiveSession - активная сессия пользователя, ErrNotFound если ее нет
	GetActiveSession(ctx context.Context, userID int) (*model.Session, error)
	// GetLastSession - последняя сессия пользователя, активная или завершенная
	GetLastSession(ctx context.Context, userID int) (*model.Session, error)
	GetSession(ctx context.Context, id int64) (*model.Session, error)
	// UpdateSession - сохраняет банк, серию, число нулей, резерв и время обновления
	UpdateSession(ctx context.Context, session *model.Session) error
	EndSession(ctx context.Context, id int64, at time.Time) error
}

type SpinRepository interface {
	AddSpin(ctx context.Context, spin *model.Spin) (id int64, err error)
	// ListSpins - все спины сессии в порядке раундов
	ListSpins(ctx context.Context, sessionID int64) ([]model.Spin, error)
	// LastNumbers - последние n чисел сессии в хронологическом порядке
	LastNumbers(ctx context.Context, sessionID int64, n int) ([]int, error)
	CountSpins(ctx context.Context, sessionID int64) (int, error)
}
