package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"tfabot/entity"
	"tfabot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const maxTelegramMessageLen = 4000

// plainResponse sends plain text without any parse mode; command replies use
// no formatting.
func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Error("sending message", sl.Err(err))
	}
}

// markdownResponse sends MarkdownV2 with a plain-text fallback when the
// formatting is rejected.
func (t *TgBot) markdownResponse(chatId int64, text string) {
	if text == "" {
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending markdown message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Error("sending safe message", sl.Err(err))
		}
	}
}

// SendAlert pushes an operational alert to the administrator chat.
// Used by the logger's Telegram handler for error-level records.
func (t *TgBot) SendAlert(text string) {
	t.markdownResponse(t.adminId, text)
}

func Sanitize(input string) string {
	reservedChars := "\\_{}#+-.!|()[]=*"
	sanitized := ""
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sanitized += "\\" + string(char)
		} else {
			sanitized += string(char)
		}
	}
	return sanitized
}

func (t *TgBot) isAdmin(chatId int64) bool {
	return chatId == t.adminId
}

// commandArgs returns the whitespace-separated arguments after the command.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		// Try to split at newline
		cutAt := maxLen
		nlIdx := strings.LastIndex(text[:maxLen], "\n")
		if nlIdx > 0 {
			cutAt = nlIdx + 1
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}

// Reply text builders, one per domain outcome. Pure so they can be tested
// without a live api.

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func statusReply(st entity.UserStatus) string {
	if !st.Registered {
		return fmt.Sprintf(
			"No estás registrado.\nPor favor, envía tu ID de Telegram al administrador para activarte.\nTu ID es: %s",
			st.UserID,
		)
	}
	return fmt.Sprintf(
		"Estado de usuario:\nID: %s\nActivado: %s\nCódigos usados hoy: %d de %d",
		st.UserID, yesNo(st.Activated), st.UsedToday, st.DailyMax,
	)
}

func notRegisteredReply(userID string) string {
	return fmt.Sprintf(
		"No estás registrado aún.\nTu ID es: %s\nPor favor, contacta al administrador con este ID para activar tu cuenta.",
		userID,
	)
}

func issuedReply(issued *entity.IssuedCode) string {
	return fmt.Sprintf(
		"Tu código de doble autenticación es:\n\n%s\n\nCódigos usados hoy: %d de %d\nEste código es válido solo para esta sesión.",
		issued.Code, issued.UsedToday, issued.DailyMax,
	)
}

func quotaExceededReply(dailyMax int) string {
	return fmt.Sprintf(
		"Has alcanzado el límite de %d códigos diarios. Intenta mañana nuevamente.",
		dailyMax,
	)
}

func listReply(users []entity.UserSummary) string {
	if len(users) == 0 {
		return "No hay usuarios registrados."
	}
	var sb strings.Builder
	sb.WriteString("Usuarios registrados:")
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("\nID: %s - Activado: %s - Códigos hoy: %d",
			u.UserID, yesNo(u.Activated), u.CodesSentToday))
	}
	return sb.String()
}

// reportError logs the failure, alerts the admin chat with details, and sends
// a neutral message to the user.
func (t *TgBot) reportError(chatId int64, command string, err error) {
	t.log.Error("bot command failed",
		slog.String("command", command),
		slog.Int64("user_id", chatId),
		sl.Err(err),
	)
	t.SendAlert(fmt.Sprintf(
		"Command `%s` failed\nUser: `%d`\nError: `%s`",
		Sanitize(command), chatId, Sanitize(err.Error()),
	))
	t.plainResponse(chatId, "Algo salió mal. Inténtalo de nuevo más tarde.")
}
