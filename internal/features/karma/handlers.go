// Package karma — handlers.go обрабатывает реакции и команды !карма, !топ, !игнор.
package karma

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Names — откуда брать имена для сообщений бота.
type Names interface {
	FetchUser(ctx context.Context, chatID, userID int64) (string, error)
}

// Observer записывает итог обработки реакции (реализуется *metrics.ReactionMetrics).
type Observer interface {
	Observe(result string, direction int, took time.Duration)
}

// Handler обрабатывает события кармы.
type Handler struct {
	service         *Service
	resolver        *Resolver
	names           Names
	out             common.Messenger
	metrics         Observer
	leaderboardSize int
}

// NewHandler создаёт обработчик кармы.
func NewHandler(service *Service, resolver *Resolver, names Names, out common.Messenger, metrics Observer, leaderboardSize int) *Handler {
	return &Handler{
		service:         service,
		resolver:        resolver,
		names:           names,
		out:             out,
		metrics:         metrics,
		leaderboardSize: leaderboardSize,
	}
}

// HandleReaction прогоняет реакцию через резолвер. В чат ничего не пишет.
func (h *Handler) HandleReaction(ctx context.Context, ev Event) {
	start := time.Now()
	res, err := h.resolver.Resolve(ctx, ev)
	h.metrics.Observe(string(res.Outcome), res.Direction, time.Since(start))

	fields := log.Fields{
		"chat_id":    ev.ChatID,
		"message_id": ev.MessageID,
		"user_id":    ev.UserID,
		"emoji":      ev.Emoji.String(),
		"type":       ev.Type.String(),
	}

	if err != nil {
		// Сообщение не в индексе или пользователь не найден: это не сбой хранилища
		if errors.Is(err, common.ErrMessageNotFound) || errors.Is(err, common.ErrUserNotFound) {
			log.WithError(err).WithFields(fields).Warn("Реакция пропущена: не удалось получить данные")
			return
		}
		log.WithError(err).WithFields(fields).Error("Ошибка обработки реакции")
		return
	}

	if res.Outcome != OutcomeApplied {
		log.WithFields(fields).WithField("outcome", res.Outcome).Debug("Реакция не меняет карму")
	}
}

// HandleKarma — !карма. Показывает карму targetID в чате.
func (h *Handler) HandleKarma(ctx context.Context, chatID, targetID int64) {
	karma, err := h.service.GetKarma(ctx, targetID, chatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка получения кармы")
		h.out.SendMessage(ctx, chatID, "❌ Ошибка получения кармы")
		return
	}

	name := h.displayName(ctx, chatID, targetID)
	h.out.SendMessage(ctx, chatID, fmt.Sprintf("⭐ Карма %s: %s", name, common.FormatKarma(int64(karma))))
}

// HandleLeaderboard — !топ. Первые leaderboardSize пользователей по карме.
func (h *Handler) HandleLeaderboard(ctx context.Context, chatID int64) {
	records, err := h.service.GetLeaderboard(ctx, chatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка получения топа")
		h.out.SendMessage(ctx, chatID, "❌ Ошибка получения топа")
		return
	}
	if len(records) == 0 {
		h.out.SendMessage(ctx, chatID, "📭 В этом чате ещё никто не получил карму")
		return
	}
	h.out.SendMessage(ctx, chatID, h.formatLeaderboard(ctx, chatID, records))
}

// HandleDigest публикует топ по расписанию. Пустой топ и ошибки в чат не пишутся.
func (h *Handler) HandleDigest(ctx context.Context, chatID int64) {
	records, err := h.service.GetLeaderboard(ctx, chatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("[CRON] Ошибка получения топа")
		return
	}
	if len(records) == 0 {
		log.WithField("chat_id", chatID).Debug("[CRON] Топ пуст, дайджест пропущен")
		return
	}
	h.out.SendMessage(ctx, chatID, h.formatLeaderboard(ctx, chatID, records))
}

func (h *Handler) formatLeaderboard(ctx context.Context, chatID int64, records []Record) string {
	if len(records) > h.leaderboardSize {
		records = records[:h.leaderboardSize]
	}

	var sb strings.Builder
	sb.WriteString("🏆 Топ по карме\n")
	for i, rec := range records {
		fmt.Fprintf(&sb, "\n%d. %s — %s", i+1,
			h.displayName(ctx, chatID, rec.UserID), common.FormatKarma(int64(rec.Karma)))
	}
	return sb.String()
}

// HandleIgnore — !игнор. Права администратора проверяются до вызова.
func (h *Handler) HandleIgnore(ctx context.Context, chatID, targetID int64) {
	ignored, err := h.service.ToggleIgnored(ctx, targetID, chatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка переключения игнора")
		h.out.SendMessage(ctx, chatID, "❌ Не удалось изменить игнор")
		return
	}

	name := h.displayName(ctx, chatID, targetID)
	if ignored {
		h.out.SendMessage(ctx, chatID, fmt.Sprintf("🙈 Реакции %s больше не влияют на карму", name))
		return
	}
	h.out.SendMessage(ctx, chatID, fmt.Sprintf("👀 Реакции %s снова учитываются", name))
}

func (h *Handler) displayName(ctx context.Context, chatID, userID int64) string {
	name, err := h.names.FetchUser(ctx, chatID, userID)
	if err != nil || name == "" {
		log.WithError(err).WithField("user_id", userID).Debug("Имя пользователя не найдено")
		return fmt.Sprintf("%d", userID)
	}
	return name
}
