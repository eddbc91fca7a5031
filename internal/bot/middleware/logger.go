// Package middleware содержит промежуточные обработчики для логирования
// и восстановления после паники.
package middleware

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст (первые 50 символов).
func LogMessage(message *telego.Message) {
	if message == nil || message.From == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":    message.From.ID,
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
		"username":   message.From.Username,
		"text":       shorten(message.Text, 50),
	}).Debug("Входящее сообщение")
}

// LogReaction логирует апдейт реакции.
func LogReaction(r *telego.MessageReactionUpdated) {
	if r == nil {
		return
	}

	fields := log.Fields{
		"chat_id":    r.Chat.ID,
		"message_id": r.MessageID,
		"old":        len(r.OldReaction),
		"new":        len(r.NewReaction),
	}
	if r.User != nil {
		fields["user_id"] = r.User.ID
	}
	log.WithFields(fields).Debug("Входящая реакция")
}

// shorten обрезает текст по рунам, чтобы не резать кириллицу посередине.
func shorten(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
