package memory_repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"roulette_sentinel/internal/model"
	"roulette_sentinel/internal/repository"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/pkg/errors"
)

// Store Хранилище пользователей, сессий и спинов в памяти.
// Используется, когда PG_DSN не задан, и в тестах
type Store struct {
	mtx sync.RWMutex

	users       map[int]model.User
	userByLogin map[string]int
	sessions    map[int64]model.Session
	spins       map[int64][]model.Spin

	nextUserID    int
	nextSessionID int64
	nextSpinID    int64
}

func NewStore() *Store {
	return &Store{
		users:       make(map[int]model.User),
		userByLogin: make(map[string]int),
		sessions:    make(map[int64]model.Session),
		spins:       make(map[int64][]model.Spin),
	}
}

func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Sessions() repository.SessionRepository { return sessionRepo{s} }
func (s *Store) Spins() repository.SpinRepository       { return spinRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) CreateUser(_ context.Context, user *model.User) (int, error) {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.userByLogin[user.Login]; ok {
		return 0, errors.Wrapf(repository.ErrDuplicate, "login %q", user.Login)
	}

	r.s.nextUserID++
	u := *user
	u.ID = r.s.nextUserID
	r.s.users[u.ID] = u
	r.s.userByLogin[u.Login] = u.ID

	return u.ID, nil
}

func (r userRepo) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	id, ok := r.s.userByLogin[login]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r userRepo) GetUserByID(_ context.Context, id int) (*model.User, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) CreateSession(_ context.Context, session *model.Session) (int64, error) {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	r.s.nextSessionID++
	cp := *session
	cp.ID = r.s.nextSessionID
	cp.IsActive = true
	cp.EndTime = nil
	r.s.sessions[cp.ID] = cp

	return cp.ID, nil
}

func (r sessionRepo) GetActiveSession(_ context.Context, userID int) (*model.Session, error) {
	return r.find(userID, true)
}

func (r sessionRepo) GetLastSession(_ context.Context, userID int) (*model.Session, error) {
	return r.find(userID, false)
}

// find Сессия пользователя с наибольшим ID
func (r sessionRepo) find(userID int, activeOnly bool) (*model.Session, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	var found *model.Session
	for _, sess := range r.s.sessions {
		if sess.UserID != userID || (activeOnly && !sess.IsActive) {
			continue
		}
		if found == nil || sess.ID > found.ID {
			cp := sess
			found = &cp
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r sessionRepo) GetSession(_ context.Context, id int64) (*model.Session, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (r sessionRepo) UpdateSession(_ context.Context, session *model.Session) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	stored, ok := r.s.sessions[session.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.CurrentBank = session.CurrentBank
	stored.Streak = session.Streak
	stored.ZeroCount = session.ZeroCount
	stored.Reserve = session.Reserve
	stored.LastUpdate = session.LastUpdate
	r.s.sessions[session.ID] = stored

	return nil
}

func (r sessionRepo) EndSession(_ context.Context, id int64, at time.Time) error {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	stored, ok := r.s.sessions[id]
	if !ok || !stored.IsActive {
		return repository.ErrNotFound
	}
	stored.IsActive = false
	stored.EndTime = &at
	stored.LastUpdate = at
	r.s.sessions[id] = stored

	return nil
}

type spinRepo struct{ s *Store }

func (r spinRepo) AddSpin(_ context.Context, spin *model.Spin) (int64, error) {
	r.s.mtx.Lock()
	defer r.s.mtx.Unlock()

	if _, ok := r.s.sessions[spin.SessionID]; !ok {
		return 0, errors.Wrapf(repository.ErrNotFound, "session %d", spin.SessionID)
	}
	for _, existing := range r.s.spins[spin.SessionID] {
		if existing.Round == spin.Round {
			return 0, errors.Wrapf(repository.ErrDuplicate, "round %d", spin.Round)
		}
	}

	r.s.nextSpinID++
	cp := *spin
	cp.ID = r.s.nextSpinID
	list := append(r.s.spins[spin.SessionID], cp)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Round < list[j].Round })
	r.s.spins[spin.SessionID] = list

	return cp.ID, nil
}

func (r spinRepo) ListSpins(_ context.Context, sessionID int64) ([]model.Spin, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	list := r.s.spins[sessionID]
	out := make([]model.Spin, len(list))
	copy(out, list)
	return out, nil
}

func (r spinRepo) LastNumbers(_ context.Context, sessionID int64, n int) ([]int, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	list := r.s.spins[sessionID]
	if n <= 0 {
		return []int{}, nil
	}
	if n < len(list) {
		list = list[len(list)-n:]
	}

	numbers := make([]int, len(list))
	for i, sp := range list {
		numbers[i] = sp.Number
	}
	return numbers, nil
}

func (r spinRepo) CountSpins(_ context.Context, sessionID int64) (int, error) {
	r.s.mtx.RLock()
	defer r.s.mtx.RUnlock()

	return len(r.s.spins[sessionID]), nil
}

// TxManager Менеджер транзакций для хранилища в памяти.
// Откатов нет: транзакции только выполняются по очереди
type TxManager struct {
	mtx sync.Mutex
}

var _ trm.Manager = (*TxManager)(nil)

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return fn(ctx)
}

func (m *TxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
