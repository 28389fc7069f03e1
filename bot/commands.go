package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"tfabot/internal/quota"
	"tfabot/lib/clock"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const (
	replyNotActivated = "Tu cuenta no está activada para recibir códigos. Contacta al administrador."
	replyUnknown      = "Comando no reconocido. Escribe /help para ver los comandos disponibles."
)

// callerID is the string identity the store is keyed by.
func callerID(ctx *ext.Context) string {
	return strconv.FormatInt(ctx.EffectiveUser.Id, 10)
}

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	user := ctx.EffectiveUser
	t.plainResponse(user.Id, fmt.Sprintf(
		"¡Hola %s! Bienvenido al Bot de códigos 2FA.\n\n"+
			"Envía /status para ver tu estado.\n"+
			"Si aún no tienes activada la opción para recibir códigos, contacta al administrador con tu ID para solicitar activación.\n"+
			"Tu ID es: %d\n"+
			"Comandos disponibles:\n"+
			"/getcode - Obtener código 2FA (máximo %d diarios)\n"+
			"/status - Ver estado\n"+
			"/help - Ver ayuda",
		user.FirstName, user.Id, t.quota.DailyMax(),
	))
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	t.plainResponse(ctx.EffectiveUser.Id, fmt.Sprintf(
		"Bot para obtención de códigos 2FA.\n\n"+
			"Comandos de usuario:\n"+
			"/start - Inicio\n"+
			"/getcode - Obtener código de doble autenticación (máximo %d diarios)\n"+
			"/status - Ver estado de activación y uso\n"+
			"/help - Mostrar esta ayuda\n\n"+
			"Comandos de administrador (sólo para ADMIN):\n"+
			"/activate_user <telegram_user_id> - Activar usuario\n"+
			"/deactivate_user <telegram_user_id> - Desactivar usuario\n"+
			"/list_users - Listar usuarios registrados",
		t.quota.DailyMax(),
	))
	return nil
}

func (t *TgBot) status(_ *tgbotapi.Bot, ctx *ext.Context) error {
	st := t.quota.Status(callerID(ctx), clock.Today())
	t.plainResponse(ctx.EffectiveUser.Id, statusReply(st))
	return nil
}

func (t *TgBot) getcode(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveUser.Id
	userId := callerID(ctx)

	issued, err := t.quota.RequestCode(userId, clock.Today())
	switch {
	case errors.Is(err, quota.ErrNotRegistered):
		t.plainResponse(chatId, notRegisteredReply(userId))
	case errors.Is(err, quota.ErrNotActivated):
		t.plainResponse(chatId, replyNotActivated)
	case errors.Is(err, quota.ErrQuotaExceeded):
		t.plainResponse(chatId, quotaExceededReply(t.quota.DailyMax()))
	case err != nil:
		t.reportError(chatId, "/getcode", err)
	default:
		t.plainResponse(chatId, issuedReply(issued))
		t.log.With(
			slog.String("user_id", userId),
			slog.Int("used_today", issued.UsedToday),
		).Info("code issued")
	}
	return nil
}

func (t *TgBot) unknown(_ *tgbotapi.Bot, ctx *ext.Context) error {
	t.plainResponse(ctx.EffectiveUser.Id, replyUnknown)
	return nil
}
