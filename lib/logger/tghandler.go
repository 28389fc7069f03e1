package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"tfabot/bot"
)

// Alerter delivers a formatted alert to the administrator chat.
// *bot.TgBot satisfies it.
type Alerter interface {
	SendAlert(text string)
}

// alertSink holds the alert target behind a lock so it can be attached
// after the logger is already in use. Handler copies made by WithAttrs
// and WithGroup share the same sink.
type alertSink struct {
	mu  sync.RWMutex
	bot Alerter
}

func (s *alertSink) set(bot Alerter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bot = bot
}

func (s *alertSink) get() Alerter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bot
}

// TelegramHandler is a slog.Handler that relays records at or above
// minLevel to Telegram in addition to the wrapped handler
type TelegramHandler struct {
	handler  slog.Handler
	sink     *alertSink
	minLevel slog.Level
	mu       sync.Mutex
	attrs    []slog.Attr
	group    string
}

// NewTelegramHandler creates a new TelegramHandler. The handler is usable
// immediately; alerts start flowing once AttachBot is called.
func NewTelegramHandler(handler slog.Handler, minLevel slog.Level) *TelegramHandler {
	return &TelegramHandler{
		handler:  handler,
		sink:     &alertSink{},
		minLevel: minLevel,
		attrs:    make([]slog.Attr, 0),
		group:    "",
	}
}

// AttachBot sets the alert target. Loggers derived from this handler
// before the call pick it up as well.
func (h *TelegramHandler) AttachBot(bot Alerter) {
	h.sink.set(bot)
}

// Enabled implements slog.Handler.Enabled
func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.Handle
func (h *TelegramHandler) Handle(ctx context.Context, record slog.Record) error {
	// First, let the underlying handler handle the record
	err := h.handler.Handle(ctx, record)
	if err != nil {
		return err
	}

	// If the level is high enough, send to Telegram
	if record.Level >= h.minLevel {
		h.mu.Lock()
		defer h.mu.Unlock()

		// Format the log message
		var msg string

		// Add group prefix if present
		if h.group != "" {
			msg = fmt.Sprintf("*%s* `%s.%s`", record.Level.String(), h.group, record.Message)
		} else {
			msg = fmt.Sprintf("*%s* `%s`", record.Level.String(), record.Message)
		}

		// Add attributes from .With() calls
		for _, attr := range h.attrs {
			if attr.Key == "error" {
				msg += fmt.Sprintf("\n%s: ```error %v ```", attr.Key, attr.Value)
			} else {
				msg += bot.Sanitize(fmt.Sprintf("\n%s: %v", attr.Key, attr.Value))
			}
		}

		// Add attributes from the record
		record.Attrs(func(attr slog.Attr) bool {
			msg += bot.Sanitize(fmt.Sprintf("\n%s: %v", attr.Key, attr.Value))
			return true
		})

		// Relay to the admin chat
		if target := h.sink.get(); target != nil {
			target.SendAlert(msg)
		}
	}

	return nil
}

// WithAttrs implements slog.Handler.WithAttrs
func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Create a new handler with the combined attributes
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &TelegramHandler{
		handler:  h.handler.WithAttrs(attrs),
		sink:     h.sink,
		minLevel: h.minLevel,
		mu:       sync.Mutex{},
		attrs:    newAttrs,
		group:    h.group,
	}
}

// WithGroup implements slog.Handler.WithGroup
func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	var group string
	if h.group != "" {
		group = h.group + "." + name
	} else {
		group = name
	}

	return &TelegramHandler{
		handler:  h.handler.WithGroup(name),
		sink:     h.sink,
		minLevel: h.minLevel,
		mu:       sync.Mutex{},
		attrs:    h.attrs,
		group:    group,
	}
}
