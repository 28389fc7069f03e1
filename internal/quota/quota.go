// Package quota implements the user quota store: per-user activation flags
// and a rolling daily counter of issued codes. Every operation loads the full
// store, decides, mutates and saves back under one lock; persistence trouble
// never blocks the reply to the user.
package quota

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"tfabot/entity"
	"tfabot/lib/sl"
)

// Domain outcomes of quota operations. Expected results with their own reply
// templates, not failures of the handling flow.
var (
	ErrNotRegistered = errors.New("user not registered")
	ErrNotActivated  = errors.New("user not activated")
	ErrQuotaExceeded = errors.New("daily quota exceeded")
	ErrNotFound      = errors.New("user not found")
)

// codes are rendered %06d over 0..999999
const codeSpace = 1000000

// Storage persists the full user store as a unit.
// Implemented by database.FileStorage and database.MongoDB.
type Storage interface {
	Load() (*entity.Store, error)
	Save(*entity.Store) error
}

// Service owns the load-decide-mutate-save cycle over the user store.
// The store is not held open between calls; each operation re-reads it.
type Service struct {
	storage  Storage
	log      *slog.Logger
	dailyMax int
	mu       sync.Mutex // guards the whole load-mutate-save sequence
}

func New(storage Storage, dailyMax int, log *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		dailyMax: dailyMax,
		log:      log.With(sl.Module("quota")),
	}
}

func (s *Service) DailyMax() int {
	return s.dailyMax
}

// load reads the persisted store. Read trouble degrades to an empty store:
// the command still gets an answer, users just appear unregistered.
func (s *Service) load() *entity.Store {
	store, err := s.storage.Load()
	if err != nil {
		s.log.Error("loading user store", sl.Err(err))
		return entity.NewStore()
	}
	if store == nil {
		store = entity.NewStore()
	}
	return store
}

// save writes the full store back. A write failure is logged; the state
// already computed for the current reply stays valid.
func (s *Service) save(store *entity.Store) {
	if err := s.storage.Save(store); err != nil {
		s.log.Error("saving user store", sl.Err(err))
	}
}

// Status reports registration, activation and the effective used-today count
// for one user. The count is the stored counter only while the stored date
// matches today; a stale date reads as zero without being written back.
func (s *Service) Status(userID, today string) entity.UserStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := entity.UserStatus{UserID: userID, DailyMax: s.dailyMax}
	record, ok := s.load().Get(userID)
	if !ok {
		return status
	}
	status.Registered = true
	status.Activated = record.Activated
	status.UsedToday = record.UsedToday(today)
	return status
}

// RequestCode runs the central state transition. A never-seen user is
// registered deactivated (persisted) and gets ErrNotRegistered; a deactivated
// user gets ErrNotActivated; a user at the daily maximum gets
// ErrQuotaExceeded; otherwise a fresh 6-digit code is issued, the counter and
// date are updated and the store is persisted.
func (s *Service) RequestCode(userID, today string) (*entity.IssuedCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := s.load()
	record, ok := store.Get(userID)
	if !ok {
		store.Put(userID, entity.NewUserRecord())
		s.save(store)
		return nil, ErrNotRegistered
	}
	if !record.Activated {
		return nil, ErrNotActivated
	}
	used := record.UsedToday(today)
	if used >= s.dailyMax {
		return nil, ErrQuotaExceeded
	}

	code := fmt.Sprintf("%06d", rand.IntN(codeSpace))
	record.CodesSentToday = used + 1
	record.LastRequestDate = today
	store.Put(userID, record)
	s.save(store)

	return &entity.IssuedCode{
		Code:      code,
		UsedToday: record.CodesSentToday,
		DailyMax:  s.dailyMax,
	}, nil
}

// SetActivation flips the activation flag. Activating creates the record on
// demand with default state; deactivating a never-seen user returns
// ErrNotFound without touching the store.
func (s *Service) SetActivation(userID string, activated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := s.load()
	record, ok := store.Get(userID)
	if !ok {
		if !activated {
			return ErrNotFound
		}
		record = entity.NewUserRecord()
	}
	record.Activated = activated
	store.Put(userID, record)
	s.save(store)
	return nil
}

// ListAll returns a snapshot of every known user in store iteration order.
// The counter is reported as stored, without date adjustment.
func (s *Service) ListAll() []entity.UserSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := s.load()
	list := make([]entity.UserSummary, 0, store.Len())
	for _, id := range store.UserIDs() {
		record, ok := store.Get(id)
		if !ok {
			continue
		}
		list = append(list, entity.UserSummary{
			UserID:         id,
			Activated:      record.Activated,
			CodesSentToday: record.CodesSentToday,
		})
	}
	return list
}
