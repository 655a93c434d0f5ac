package session_repo

import (
	"context"
	"time"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const (
	table           = "sessions"
	colID           = "id"
	colUserID       = "user_id"
	colStrategyName = "strategy_name"
	colInitialBank  = "initial_bank"
	colCurrentBank  = "current_bank"
	colBaseStake    = "base_stake"
	colStreak       = "streak"
	colZeroCount    = "zero_count"
	colReserve      = "reserve"
	colIsActive     = "is_active"
	colStartTime    = "start_time"
	colLastUpdate   = "last_update"
	colEndTime      = "end_time"
)

var (
	psql    = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	columns = []string{
		colID, colUserID, colStrategyName, colInitialBank, colCurrentBank, colBaseStake,
		colStreak, colZeroCount, colReserve, colIsActive, colStartTime, colLastUpdate, colEndTime,
	}
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSessionRepository(dbc *pgxpool.Pool) repository.SessionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func insertSessionQuery(s *model.Session) sq.InsertBuilder {
	return psql.Insert(table).
		Columns(colUserID, colStrategyName, colInitialBank, colCurrentBank, colBaseStake,
			colStreak, colZeroCount, colReserve, colIsActive, colStartTime, colLastUpdate).
		Values(s.UserID, s.StrategyName, s.InitialBank, s.CurrentBank, s.BaseStake,
			s.Streak, s.ZeroCount, s.Reserve, true, s.StartTime, s.LastUpdate).
		Suffix("RETURNING " + colID)
}

func selectSessionQuery() sq.SelectBuilder {
	return psql.Select(columns...).From(table)
}

// Строка блокируется до конца транзакции, чтобы параллельные спины одной сессии шли по очереди
func activeSessionQuery(userID int) sq.SelectBuilder {
	return selectSessionQuery().
		Where(sq.Eq{colUserID: userID, colIsActive: true}).
		OrderBy(colStartTime + " DESC").
		Limit(1).
		Suffix("FOR UPDATE")
}

func lastSessionQuery(userID int) sq.SelectBuilder {
	return selectSessionQuery().
		Where(sq.Eq{colUserID: userID}).
		OrderBy(colID + " DESC").
		Limit(1)
}

func updateSessionQuery(s *model.Session) sq.UpdateBuilder {
	return psql.Update(table).
		Set(colCurrentBank, s.CurrentBank).
		Set(colStreak, s.Streak).
		Set(colZeroCount, s.ZeroCount).
		Set(colReserve, s.Reserve).
		Set(colLastUpdate, s.LastUpdate).
		Where(sq.Eq{colID: s.ID})
}

func endSessionQuery(id int64, at time.Time) sq.UpdateBuilder {
	return psql.Update(table).
		Set(colIsActive, false).
		Set(colEndTime, at).
		Set(colLastUpdate, at).
		Where(sq.Eq{colID: id, colIsActive: true})
}

// CreateSession - создает активную сессию в БД.
// Возвращает ID сессии
func (r *repo) CreateSession(ctx context.Context, session *model.Session) (int64, error) {
	sqlStr, args, err := insertSessionQuery(session).ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert session")
	}

	return id, nil
}

// GetActiveSession - активная сессия пользователя
func (r *repo) GetActiveSession(ctx context.Context, userID int) (*model.Session, error) {
	return r.getSession(ctx, activeSessionQuery(userID))
}

// GetLastSession - последняя сессия пользователя
func (r *repo) GetLastSession(ctx context.Context, userID int) (*model.Session, error) {
	return r.getSession(ctx, lastSessionQuery(userID))
}

// GetSession - сессия по ID
func (r *repo) GetSession(ctx context.Context, id int64) (*model.Session, error) {
	return r.getSession(ctx, selectSessionQuery().Where(sq.Eq{colID: id}))
}

// UpdateSession - сохраняет состояние стратегии после спина
func (r *repo) UpdateSession(ctx context.Context, session *model.Session) error {
	sqlStr, args, err := updateSessionQuery(session).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return errors.Wrap(err, "update session")
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EndSession - завершает сессию (is_active = false, end_time)
func (r *repo) EndSession(ctx context.Context, id int64, at time.Time) error {
	sqlStr, args, err := endSessionQuery(id, at).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return errors.Wrap(err, "end session")
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *repo) getSession(ctx context.Context, query sq.SelectBuilder) (*model.Session, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var s model.Session
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&s.ID, &s.UserID, &s.StrategyName, &s.InitialBank, &s.CurrentBank, &s.BaseStake,
		&s.Streak, &s.ZeroCount, &s.Reserve, &s.IsActive, &s.StartTime, &s.LastUpdate, &s.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrap(err, "select session")
	}

	return &s, nil
}
