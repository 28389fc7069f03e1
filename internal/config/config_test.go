package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
env: local
telegram:
  api_key: "test-token"
  admin_id: 7
storage:
  users_file: users.json
  daily_max: 3
listen:
  enabled: true
  port: "8081"
api:
  token: "secret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	conf := MustLoad(path)
	require.NotNil(t, conf)
	assert.Equal(t, "test-token", conf.Telegram.ApiKey)
	assert.Equal(t, int64(7), conf.Telegram.AdminId)
	assert.Equal(t, "users.json", conf.Storage.UsersFile)
	assert.Equal(t, 3, conf.Storage.DailyMax)
	assert.True(t, conf.Listen.Enabled)
	assert.Equal(t, "8081", conf.Listen.Port)
	assert.Equal(t, "secret", conf.Api.Token)
	assert.False(t, conf.Mongo.Enabled)

	// config is a process-wide singleton
	assert.Same(t, conf, MustLoad(path))
}
