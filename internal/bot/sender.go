package bot

import (
	"context"
	"time"

	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/features/karma"
)

// Sender отправляет сообщения и кладёт их в индекс: реакции на
// сообщения бота должны опознаваться как голоса за бота.
type Sender struct {
	api    API
	index  MessageIndex
	selfID int64
}

// NewSender создаёт отправителя сообщений.
func NewSender(api API, index MessageIndex, selfID int64) *Sender {
	return &Sender{api: api, index: index, selfID: selfID}
}

// SendMessage реализует common.Messenger.
func (s *Sender) SendMessage(ctx context.Context, chatID int64, text string) {
	msg, err := s.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
		return
	}
	indexMessage(ctx, s.index, chatID, msg.MessageID, s.selfID, msg.Date)
}

func indexMessage(ctx context.Context, index MessageIndex, chatID int64, messageID int, authorID, date int64) {
	info := messageInfo(authorID, date)
	if err := index.Put(ctx, chatID, messageID, info); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id":    chatID,
			"message_id": messageID,
		}).Warn("Не удалось запомнить сообщение")
	}
}

func messageInfo(authorID, date int64) karma.MessageInfo {
	return karma.MessageInfo{AuthorID: authorID, CreatedAt: time.Unix(date, 0).UTC()}
}
