package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfabot/entity"
)

func storagePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "users.json")
}

func TestLoadMissingFile(t *testing.T) {
	storage := NewFileStorage(storagePath(t))

	store, err := storage.Load()
	require.NoError(t, err, "first run without a store file is not an error")
	assert.Equal(t, 0, store.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	storage := NewFileStorage(storagePath(t))

	store := entity.NewStore()
	store.Put("42", &entity.UserRecord{
		Activated:       true,
		CodesSentToday:  2,
		LastRequestDate: "2026-08-30",
	})
	store.Put("7", entity.NewUserRecord())
	require.NoError(t, storage.Save(store))

	loaded, err := storage.Load()
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	record, ok := loaded.Get("42")
	require.True(t, ok)
	assert.True(t, record.Activated)
	assert.Equal(t, 2, record.CodesSentToday)
	assert.Equal(t, "2026-08-30", record.LastRequestDate)

	record, ok = loaded.Get("7")
	require.True(t, ok)
	assert.False(t, record.Activated)
	assert.Equal(t, 0, record.CodesSentToday)
	assert.Empty(t, record.LastRequestDate)

	// loaded stores iterate in sorted id order
	assert.Equal(t, []string{"42", "7"}, loaded.UserIDs())
}

func TestLoadMalformedFile(t *testing.T) {
	path := storagePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	storage := NewFileStorage(path)

	_, err := storage.Load()
	assert.Error(t, err)
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	path := storagePath(t)
	content := `{"7": {"activated": true, "legacy_field": 5}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	storage := NewFileStorage(path)

	store, err := storage.Load()
	require.NoError(t, err)

	record, ok := store.Get("7")
	require.True(t, ok)
	assert.True(t, record.Activated)
	assert.Equal(t, 0, record.CodesSentToday)
	assert.Empty(t, record.LastRequestDate)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	path := storagePath(t)
	storage := NewFileStorage(path)

	store := entity.NewStore()
	store.Put("42", entity.NewUserRecord())
	require.NoError(t, storage.Save(store))
	require.NoError(t, storage.Save(store))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users.json", entries[0].Name())
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	storage := NewFileStorage(storagePath(t))

	store := entity.NewStore()
	store.Put("42", &entity.UserRecord{Activated: true})
	require.NoError(t, storage.Save(store))

	record, _ := store.Get("42")
	record.Activated = false
	record.CodesSentToday = 1
	record.LastRequestDate = "2026-08-30"
	require.NoError(t, storage.Save(store))

	loaded, err := storage.Load()
	require.NoError(t, err)
	record, ok := loaded.Get("42")
	require.True(t, ok)
	assert.False(t, record.Activated)
	assert.Equal(t, 1, record.CodesSentToday)
}
