// Package bot implements the Telegram transport for the 2FA code service.
//
//   - tgbot.go    — TgBot struct, lifecycle (Start/Stop), QuotaService interface
//   - commands.go — user commands: /start, /help, /status, /getcode
//   - admin.go    — admin commands: /activate_user, /deactivate_user, /list_users
//   - helpers.go  — send helpers, MarkdownV2 escaping, reply text builders
//
// Dispatch holds no state of its own: every command resolves the caller
// identity, calls into the quota service and formats the outcome. Admin
// commands compare the caller id against the single admin id fixed at
// construction time.
package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tfabot/entity"
	"tfabot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

// QuotaService defines the store operations the bot depends on.
// Implemented by internal/quota.Service.
type QuotaService interface {
	Status(userID, today string) entity.UserStatus
	RequestCode(userID, today string) (*entity.IssuedCode, error)
	SetActivation(userID string, activated bool) error
	ListAll() []entity.UserSummary
	DailyMax() int
}

// TgBot is the Telegram bot instance. It is a stateless adapter around the
// quota service; the admin id comes from configuration at construction.
type TgBot struct {
	log     *slog.Logger
	api     *tgbotapi.Bot
	quota   QuotaService
	adminId int64
	updater *ext.Updater
}

func NewTgBot(apiKey string, adminId int64, quota QuotaService, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:     log.With(sl.Module("tgbot")),
		quota:   quota,
		adminId: adminId,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	// User commands
	dispatcher.AddHandler(handlers.NewCommand("start", t.start))
	dispatcher.AddHandler(handlers.NewCommand("help", t.help))
	dispatcher.AddHandler(handlers.NewCommand("status", t.status))
	dispatcher.AddHandler(handlers.NewCommand("getcode", t.getcode))

	// Admin commands
	dispatcher.AddHandler(handlers.NewCommand("activate_user", t.activateUser))
	dispatcher.AddHandler(handlers.NewCommand("deactivate_user", t.deactivateUser))
	dispatcher.AddHandler(handlers.NewCommand("list_users", t.listUsers))

	// Checked last: any slash command no handler above claimed
	dispatcher.AddHandler(handlers.NewMessage(isCommand, t.unknown))

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.Info("bot started", slog.String("username", t.api.Username))

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
}

func isCommand(msg *tgbotapi.Message) bool {
	return strings.HasPrefix(msg.Text, "/")
}
