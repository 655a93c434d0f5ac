package spin_repo

import (
	"context"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const (
	table        = "spins"
	colID        = "id"
	colSessionID = "session_id"
	colRound     = "round"
	colNumber    = "number"
	colStake     = "stake"
	colNetWin    = "net_win"
	colBankAfter = "bank_after"
	colIsZero    = "is_zero"
	colCreatedAt = "created_at"

	uniqueViolation = "23505"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSpinRepository(dbc *pgxpool.Pool) repository.SpinRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func insertSpinQuery(s *model.Spin) sq.InsertBuilder {
	return psql.Insert(table).
		Columns(colSessionID, colRound, colNumber, colStake, colNetWin, colBankAfter, colIsZero, colCreatedAt).
		Values(s.SessionID, s.Round, s.Number, s.Stake, s.NetWin, s.BankAfter, s.IsZero, s.CreatedAt).
		Suffix("RETURNING " + colID)
}

func listSpinsQuery(sessionID int64) sq.SelectBuilder {
	return psql.Select(colID, colSessionID, colRound, colNumber, colStake, colNetWin, colBankAfter, colIsZero, colCreatedAt).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		OrderBy(colRound)
}

// Последние n раундов берутся подзапросом и переворачиваются в хронологический порядок
func lastNumbersQuery(sessionID int64, n int) sq.SelectBuilder {
	last := psql.Select(colRound, colNumber).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		OrderBy(colRound + " DESC").
		Limit(uint64(n))

	return psql.Select(colNumber).
		FromSelect(last, "last").
		OrderBy(colRound)
}

func countSpinsQuery(sessionID int64) sq.SelectBuilder {
	return psql.Select("COUNT(*)").
		From(table).
		Where(sq.Eq{colSessionID: sessionID})
}

// AddSpin - сохраняет спин, возвращает его ID.
// ErrDuplicate если раунд сессии уже записан
func (r *repo) AddSpin(ctx context.Context, spin *model.Spin) (int64, error) {
	sqlStr, args, err := insertSpinQuery(spin).ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, errors.Wrapf(repository.ErrDuplicate, "session %d round %d", spin.SessionID, spin.Round)
		}
		return 0, errors.Wrap(err, "insert spin")
	}

	return id, nil
}

// ListSpins - все спины сессии по возрастанию раунда
func (r *repo) ListSpins(ctx context.Context, sessionID int64) ([]model.Spin, error) {
	sqlStr, args, err := listSpinsQuery(sessionID).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select spins")
	}
	defer rows.Close()

	spins := make([]model.Spin, 0)
	for rows.Next() {
		var s model.Spin
		err = rows.Scan(&s.ID, &s.SessionID, &s.Round, &s.Number, &s.Stake, &s.NetWin, &s.BankAfter, &s.IsZero, &s.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan spin")
		}
		spins = append(spins, s)
	}

	return spins, rows.Err()
}

// LastNumbers - последние n выпавших чисел, от старых к новым
func (r *repo) LastNumbers(ctx context.Context, sessionID int64, n int) ([]int, error) {
	if n <= 0 {
		return []int{}, nil
	}

	sqlStr, args, err := lastNumbersQuery(sessionID, n).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select last numbers")
	}
	defer rows.Close()

	numbers := make([]int, 0, n)
	for rows.Next() {
		var num int
		if err = rows.Scan(&num); err != nil {
			return nil, errors.Wrap(err, "scan number")
		}
		numbers = append(numbers, num)
	}

	return numbers, rows.Err()
}

// CountSpins - число сыгранных раундов сессии
func (r *repo) CountSpins(ctx context.Context, sessionID int64) (int, error) {
	sqlStr, args, err := countSpinsQuery(sessionID).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "count spins")
	}

	return count, nil
}
