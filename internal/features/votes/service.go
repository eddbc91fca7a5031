// Package votes — service.go отвечает на вопросы «это голос?» и «в какую сторону?».
package votes

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Store — хранилище настроек. Реализуется *Repository.
type Store interface {
	Get(ctx context.Context, chatID int64) (VoteConfig, bool, error)
	Set(ctx context.Context, chatID int64, kind Kind, key string) error
	ChatIDs(ctx context.Context) ([]int64, error)
}

// Service управляет реакциями голосования.
type Service struct {
	store Store
}

// NewService создаёт сервис реакций.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// IsVoteEmoji — true, если эмодзи настроен в чате как апвоут или даунвоут.
// Отсутствие настройки — не ошибка, просто false.
func (s *Service) IsVoteEmoji(ctx context.Context, emoji Emoji, chatID int64) (bool, error) {
	cfg, found, err := s.store.Get(ctx, chatID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return cfg.Matches(emoji.Key()), nil
}

// ResolveDirection возвращает +1 для апвоута и -1 во всех остальных случаях.
// Вызывающий обязан сначала проверить IsVoteEmoji: любой эмодзи,
// кроме апвоута, считается даунвоутом.
func (s *Service) ResolveDirection(ctx context.Context, emoji Emoji, chatID int64) (int, error) {
	cfg, found, err := s.store.Get(ctx, chatID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%w (chat_id=%d)", common.ErrVoteConfigNotFound, chatID)
	}
	if cfg.IsUpvote(emoji.Key()) {
		return 1, nil
	}
	return -1, nil
}

// SetVoteEmoji назначает эмодзи для апвоута или даунвоута в чате.
func (s *Service) SetVoteEmoji(ctx context.Context, emoji Emoji, chatID int64, kind Kind) error {
	if emoji.Key() == "" {
		return common.ErrEmojiRequired
	}
	if err := s.store.Set(ctx, chatID, kind, emoji.Key()); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"chat_id": chatID,
		"kind":    kind,
		"emoji":   emoji.String(),
	}).Infof("%d: реакция %s установлена как %s", chatID, kind, emoji)
	return nil
}

// Get возвращает текущую настройку чата (для справки в ответах).
func (s *Service) Get(ctx context.Context, chatID int64) (VoteConfig, bool, error) {
	return s.store.Get(ctx, chatID)
}

// Communities возвращает чаты, в которых настроено голосование.
func (s *Service) Communities(ctx context.Context) ([]int64, error) {
	return s.store.ChatIDs(ctx)
}
