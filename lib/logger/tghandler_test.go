package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlerter struct {
	alerts []string
}

func (f *fakeAlerter) SendAlert(text string) {
	f.alerts = append(f.alerts, text)
}

func TestTelegramHandlerRelaysErrors(t *testing.T) {
	var buf bytes.Buffer
	handler := NewTelegramHandler(slog.NewTextHandler(&buf, nil), slog.LevelError)
	target := &fakeAlerter{}
	handler.AttachBot(target)

	log := slog.New(handler)
	log.Error("saving user store", slog.String("error", "disk full"))

	require.Len(t, target.alerts, 1)
	assert.Contains(t, target.alerts[0], "ERROR")
	assert.Contains(t, target.alerts[0], "saving user store")
	assert.Contains(t, buf.String(), "saving user store")
}

func TestTelegramHandlerInfoNotRelayed(t *testing.T) {
	var buf bytes.Buffer
	handler := NewTelegramHandler(slog.NewTextHandler(&buf, nil), slog.LevelError)
	target := &fakeAlerter{}
	handler.AttachBot(target)

	log := slog.New(handler)
	log.Info("starting up")

	assert.Empty(t, target.alerts)
	// still written through the wrapped handler
	assert.Contains(t, buf.String(), "starting up")
}

func TestTelegramHandlerLateAttach(t *testing.T) {
	var buf bytes.Buffer
	handler := NewTelegramHandler(slog.NewTextHandler(&buf, nil), slog.LevelError)

	// derive loggers before the bot exists, as main does
	log := slog.New(handler).With(slog.String("module", "quota"))
	log.Error("before attach")

	target := &fakeAlerter{}
	handler.AttachBot(target)
	log.Error("after attach")

	require.Len(t, target.alerts, 1)
	assert.Contains(t, target.alerts[0], "after attach")
}
