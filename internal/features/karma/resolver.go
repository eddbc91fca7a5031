// Package karma — resolver.go превращает реакцию на сообщение в изменение кармы автора.
package karma

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/features/votes"
)

// MaxMessageAge — голоса за сообщения старше суток не считаются.
const MaxMessageAge = 24 * time.Hour

// VoteConfig — настройка реакций голосования (реализуется *votes.Service).
type VoteConfig interface {
	IsVoteEmoji(ctx context.Context, emoji votes.Emoji, chatID int64) (bool, error)
	ResolveDirection(ctx context.Context, emoji votes.Emoji, chatID int64) (int, error)
}

// Ledger — хранилище кармы (реализуется *Service).
type Ledger interface {
	IsIgnored(ctx context.Context, userID, chatID int64) (bool, error)
	AdjustKarma(ctx context.Context, userID, chatID int64, delta int) error
}

// Platform — запросы к мессенджеру, которые нужны для голосования.
type Platform interface {
	FetchMessage(ctx context.Context, chatID int64, messageID int) (*MessageInfo, error)
	FetchUser(ctx context.Context, chatID, userID int64) (string, error)
	FetchCommunity(ctx context.Context, chatID int64) (string, error)
	SelfID() int64
}

// Resolver решает, меняет ли реакция карму, и применяет изменение.
// Собственного состояния нет: каждый вызов Resolve независим.
type Resolver struct {
	votes    VoteConfig
	ledger   Ledger
	platform Platform
	clock    clockwork.Clock
}

// NewResolver создаёт резолвер реакций.
func NewResolver(voteConfig VoteConfig, ledger Ledger, platform Platform, clock clockwork.Clock) *Resolver {
	return &Resolver{votes: voteConfig, ledger: ledger, platform: platform, clock: clock}
}

// Resolve обрабатывает одну реакцию. Проверки идут строго по порядку,
// первая сработавшая завершает обработку без записи в базу.
//
// Ошибка возвращается только при сбое запросов до изменения кармы
// (или самого изменения), и тогда карма не тронута.
func (r *Resolver) Resolve(ctx context.Context, ev Event) (Result, error) {
	isVote, err := r.votes.IsVoteEmoji(ctx, ev.Emoji, ev.ChatID)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("проверка эмодзи: %w", err)
	}
	if !isVote {
		return Result{Outcome: OutcomeNotVoteEmoji}, nil
	}

	ignored, err := r.ledger.IsIgnored(ctx, ev.UserID, ev.ChatID)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("проверка игнора: %w", err)
	}
	if ignored {
		return Result{Outcome: OutcomeIgnoredReactor}, nil
	}

	msg, err := r.platform.FetchMessage(ctx, ev.ChatID, ev.MessageID)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("сообщение %d в чате %d: %w", ev.MessageID, ev.ChatID, err)
	}

	if r.clock.Since(msg.CreatedAt) >= MaxMessageAge {
		return Result{Outcome: OutcomeStale}, nil
	}
	if msg.AuthorID == r.platform.SelfID() {
		return Result{Outcome: OutcomeBotAuthor}, nil
	}
	if msg.AuthorID == ev.UserID {
		return Result{Outcome: OutcomeSelfVote}, nil
	}

	direction, err := r.votes.ResolveDirection(ctx, ev.Emoji, ev.ChatID)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("направление голоса: %w", err)
	}
	label := "downvote"
	if direction == 1 {
		label = "upvote"
	}

	// Снятая реакция отменяет ранее засчитанный голос
	if ev.Type == EventRemove {
		direction = -direction
		label = "remove " + label
	}

	if err := r.ledger.AdjustKarma(ctx, msg.AuthorID, ev.ChatID, direction); err != nil {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("изменение кармы: %w", err)
	}

	// Карма уже записана, сбои лога ничего не откатывают
	r.logVote(ctx, ev, msg.AuthorID, label)

	return Result{
		Outcome:   OutcomeApplied,
		Direction: direction,
		AuthorID:  msg.AuthorID,
		Label:     label,
	}, nil
}

// logVote пишет строку «{чат}: {кто} - {голос} - {кому}».
// Имя, которое не удалось получить, заменяется на ID.
func (r *Resolver) logVote(ctx context.Context, ev Event, authorID int64, label string) {
	community := r.name(ev.ChatID, func() (string, error) { return r.platform.FetchCommunity(ctx, ev.ChatID) })
	reactor := r.name(ev.UserID, func() (string, error) { return r.platform.FetchUser(ctx, ev.ChatID, ev.UserID) })
	author := r.name(authorID, func() (string, error) { return r.platform.FetchUser(ctx, ev.ChatID, authorID) })

	log.WithFields(log.Fields{
		"chat_id":    ev.ChatID,
		"message_id": ev.MessageID,
		"reactor_id": ev.UserID,
		"author_id":  authorID,
	}).Infof("%s: %s - %s - %s", community, reactor, label, author)
}

func (r *Resolver) name(id int64, fetch func() (string, error)) string {
	name, err := fetch()
	if err != nil || name == "" {
		log.WithError(err).WithField("id", id).Debug("Не удалось получить имя для лога голоса")
		return fmt.Sprintf("%d", id)
	}
	return name
}
