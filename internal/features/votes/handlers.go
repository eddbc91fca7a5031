// Package votes — handlers.go обрабатывает команды !setupvote, !setdownvote и !реакции.
package votes

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Handler обрабатывает команды настройки голосования.
type Handler struct {
	service *Service
	out     common.Messenger
}

// NewHandler создаёт обработчик команд голосования.
func NewHandler(service *Service, out common.Messenger) *Handler {
	return &Handler{service: service, out: out}
}

// HandleSetVote — !setupvote / !setdownvote. Права администратора проверяются до вызова.
func (h *Handler) HandleSetVote(ctx context.Context, chatID int64, kind Kind, emoji Emoji) {
	err := h.service.SetVoteEmoji(ctx, emoji, chatID, kind)
	if errors.Is(err, common.ErrEmojiRequired) {
		h.out.SendMessage(ctx, chatID, "❌ "+err.Error())
		return
	}
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка настройки реакции")
		h.out.SendMessage(ctx, chatID, "❌ Не удалось сохранить реакцию")
		return
	}

	h.out.SendMessage(ctx, chatID, fmt.Sprintf("✅ %s теперь %s", emoji, kindTitle(kind)))
}

// HandleShow — !реакции. Показывает текущую настройку чата.
func (h *Handler) HandleShow(ctx context.Context, chatID int64) {
	cfg, found, err := h.service.Get(ctx, chatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка чтения настройки реакций")
		h.out.SendMessage(ctx, chatID, "❌ Ошибка чтения настройки")
		return
	}
	if !found {
		h.out.SendMessage(ctx, chatID, "ℹ️ "+common.ErrVoteConfigNotFound.Error()+". Админ может задать их: !setupvote 👍 и !setdownvote 👎")
		return
	}

	h.out.SendMessage(ctx, chatID, fmt.Sprintf("👍 Апвоут: %s\n👎 Даунвоут: %s",
		describe(cfg.Upvote), describe(cfg.Downvote)))
}

func kindTitle(kind Kind) string {
	if kind == KindUpvote {
		return "апвоут"
	}
	return "даунвоут"
}

func describe(key *string) string {
	if key == nil {
		return "не задан"
	}
	return *key
}
