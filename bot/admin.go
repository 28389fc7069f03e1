package bot

import (
	"errors"
	"fmt"
	"log/slog"

	"tfabot/internal/quota"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const (
	replyNoPermission = "No tienes permisos para usar este comando."
	usageActivate     = "Uso: /activate_user <telegram_user_id>"
	usageDeactivate   = "Uso: /deactivate_user <telegram_user_id>"
)

// activateUser flips a user's activation on, registering the id on demand.
func (t *TgBot) activateUser(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.isAdmin(chatId) {
		t.plainResponse(chatId, replyNoPermission)
		return nil
	}

	args := commandArgs(ctx.EffectiveMessage.Text)
	if len(args) != 1 {
		t.plainResponse(chatId, usageActivate)
		return nil
	}
	targetId := args[0]

	if err := t.quota.SetActivation(targetId, true); err != nil {
		t.reportError(chatId, "/activate_user", err)
		return nil
	}

	t.plainResponse(chatId, fmt.Sprintf("Usuario %s activado para recibir códigos.", targetId))
	t.log.With(slog.String("user_id", targetId)).Info("user activated")
	return nil
}

// deactivateUser flips a user's activation off. Unlike activation, the id
// must already be registered.
func (t *TgBot) deactivateUser(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.isAdmin(chatId) {
		t.plainResponse(chatId, replyNoPermission)
		return nil
	}

	args := commandArgs(ctx.EffectiveMessage.Text)
	if len(args) != 1 {
		t.plainResponse(chatId, usageDeactivate)
		return nil
	}
	targetId := args[0]

	err := t.quota.SetActivation(targetId, false)
	if errors.Is(err, quota.ErrNotFound) {
		t.plainResponse(chatId, fmt.Sprintf("Usuario %s no está registrado.", targetId))
		return nil
	}
	if err != nil {
		t.reportError(chatId, "/deactivate_user", err)
		return nil
	}

	t.plainResponse(chatId, fmt.Sprintf("Usuario %s desactivado.", targetId))
	t.log.With(slog.String("user_id", targetId)).Info("user deactivated")
	return nil
}

func (t *TgBot) listUsers(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	if !t.isAdmin(chatId) {
		t.plainResponse(chatId, replyNoPermission)
		return nil
	}

	users := t.quota.ListAll()
	for _, part := range splitMessage(listReply(users), maxTelegramMessageLen) {
		t.plainResponse(chatId, part)
	}
	return nil
}
