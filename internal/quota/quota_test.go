package quota

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfabot/entity"
	"tfabot/internal/database"
)

const (
	today     = "2026-08-30"
	yesterday = "2026-08-29"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

type fakeStorage struct {
	store   *entity.Store
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStorage) Load() (*entity.Store, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.store, nil
}

func (f *fakeStorage) Save(store *entity.Store) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.store = store
	return nil
}

func newService(t *testing.T) (*Service, *fakeStorage) {
	t.Helper()
	storage := &fakeStorage{store: entity.NewStore()}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(storage, 3, log), storage
}

func TestStatusUnknownUser(t *testing.T) {
	service, storage := newService(t)

	st := service.Status("42", today)

	assert.False(t, st.Registered)
	assert.False(t, st.Activated)
	assert.Equal(t, 0, st.UsedToday)
	assert.Equal(t, 3, st.DailyMax)
	assert.Equal(t, 0, storage.saves, "a read must not mutate")
}

func TestRequestCodeRegistersUnknownUser(t *testing.T) {
	service, storage := newService(t)

	issued, err := service.RequestCode("42", today)
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.Nil(t, issued)
	assert.Equal(t, 1, storage.saves)

	st := service.Status("42", today)
	assert.True(t, st.Registered)
	assert.False(t, st.Activated)
	assert.Equal(t, 0, st.UsedToday)
}

func TestRequestCodeDeactivatedUser(t *testing.T) {
	service, storage := newService(t)
	storage.store.Put("42", entity.NewUserRecord())

	_, err := service.RequestCode("42", today)
	require.ErrorIs(t, err, ErrNotActivated)
	assert.Equal(t, 0, storage.saves)
}

func TestRequestCodeIssuesUntilQuota(t *testing.T) {
	service, storage := newService(t)
	require.NoError(t, service.SetActivation("42", true))

	for i := 1; i <= 3; i++ {
		issued, err := service.RequestCode("42", today)
		require.NoError(t, err, "issuance %d", i)
		assert.Regexp(t, codePattern, issued.Code)
		assert.Equal(t, i, issued.UsedToday)
		assert.Equal(t, 3, issued.DailyMax)
	}

	_, err := service.RequestCode("42", today)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	st := service.Status("42", today)
	assert.Equal(t, 3, st.UsedToday)

	record, ok := storage.store.Get("42")
	require.True(t, ok)
	assert.Equal(t, 3, record.CodesSentToday)
	assert.Equal(t, today, record.LastRequestDate)
}

func TestDateRolloverResetsQuota(t *testing.T) {
	service, storage := newService(t)
	storage.store.Put("42", &entity.UserRecord{
		Activated:       true,
		CodesSentToday:  3,
		LastRequestDate: yesterday,
	})

	st := service.Status("42", today)
	assert.Equal(t, 0, st.UsedToday)
	assert.Equal(t, 0, storage.saves, "rollover is reported, not written back")

	record, _ := storage.store.Get("42")
	assert.Equal(t, 3, record.CodesSentToday, "stored counter untouched by reads")
	assert.Equal(t, yesterday, record.LastRequestDate)

	issued, err := service.RequestCode("42", today)
	require.NoError(t, err)
	assert.Equal(t, 1, issued.UsedToday)

	record, _ = storage.store.Get("42")
	assert.Equal(t, 1, record.CodesSentToday)
	assert.Equal(t, today, record.LastRequestDate)
}

func TestDeactivateUnknownUser(t *testing.T) {
	service, storage := newService(t)

	err := service.SetActivation("99", false)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, storage.saves)
	assert.Equal(t, 0, storage.store.Len())
}

func TestActivateUnknownUserCreatesRecord(t *testing.T) {
	service, storage := newService(t)

	require.NoError(t, service.SetActivation("42", true))
	assert.Equal(t, 1, storage.saves)

	record, ok := storage.store.Get("42")
	require.True(t, ok)
	assert.True(t, record.Activated)
	assert.Equal(t, 0, record.CodesSentToday)
	assert.Empty(t, record.LastRequestDate)
}

func TestDeactivateKnownUser(t *testing.T) {
	service, storage := newService(t)
	require.NoError(t, service.SetActivation("42", true))

	require.NoError(t, service.SetActivation("42", false))

	record, _ := storage.store.Get("42")
	assert.False(t, record.Activated)
}

func TestLoadFailureDegradesToEmptyStore(t *testing.T) {
	service, storage := newService(t)
	storage.store.Put("42", &entity.UserRecord{Activated: true})
	storage.loadErr = errors.New("disk on fire")

	st := service.Status("42", today)
	assert.False(t, st.Registered, "unreadable store reads as empty")

	_, err := service.RequestCode("42", today)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestSaveFailureDoesNotBlockReply(t *testing.T) {
	service, storage := newService(t)
	require.NoError(t, service.SetActivation("42", true))
	storage.saveErr = errors.New("disk full")

	issued, err := service.RequestCode("42", today)
	require.NoError(t, err)
	assert.Regexp(t, codePattern, issued.Code)
	assert.Equal(t, 1, issued.UsedToday)
}

func TestListAllKeepsInsertionOrder(t *testing.T) {
	service, _ := newService(t)
	for _, id := range []string{"7", "42", "13"} {
		require.NoError(t, service.SetActivation(id, true))
	}
	require.NoError(t, service.SetActivation("42", false))

	list := service.ListAll()
	require.Len(t, list, 3)
	assert.Equal(t, "7", list[0].UserID)
	assert.Equal(t, "42", list[1].UserID)
	assert.Equal(t, "13", list[2].UserID)
	assert.False(t, list[1].Activated)
}

func TestListAllReportsStoredCounter(t *testing.T) {
	service, storage := newService(t)
	storage.store.Put("42", &entity.UserRecord{
		Activated:       true,
		CodesSentToday:  2,
		LastRequestDate: yesterday,
	})

	list := service.ListAll()
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].CodesSentToday, "listing shows the raw counter")
}

func TestNullPersistedRecordTreatedAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"42": null}`), 0644))

	storage := database.NewFileStorage(path)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := New(storage, 3, log)

	st := service.Status("42", today)
	assert.True(t, st.Registered)
	assert.False(t, st.Activated)

	_, err := service.RequestCode("42", today)
	assert.ErrorIs(t, err, ErrNotActivated)
}

func TestCodesAreZeroPadded(t *testing.T) {
	// fixed-width rendering regardless of the drawn value
	for _, n := range []int{0, 7, 999999} {
		assert.Regexp(t, codePattern, fmt.Sprintf("%06d", n))
	}
}
