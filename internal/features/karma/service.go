// Package karma — service.go содержит операции над кармой (ledger).
package karma

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Store — хранилище кармы. Реализуется *Repository.
type Store interface {
	Get(ctx context.Context, chatID, userID int64) (Record, bool, error)
	Adjust(ctx context.Context, chatID, userID int64, delta int) error
	ToggleIgnored(ctx context.Context, chatID, userID int64) (bool, error)
	Leaderboard(ctx context.Context, chatID int64) ([]Record, error)
}

// Service управляет кармой пользователей.
type Service struct {
	store Store
}

// NewService создаёт сервис кармы.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetKarma возвращает карму пользователя в чате. Нет записи — 0.
func (s *Service) GetKarma(ctx context.Context, userID, chatID int64) (int, error) {
	rec, found, err := s.store.Get(ctx, chatID, userID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return rec.Karma, nil
}

// IsIgnored сообщает, игнорируются ли реакции пользователя. Нет записи — false.
func (s *Service) IsIgnored(ctx context.Context, userID, chatID int64) (bool, error) {
	rec, found, err := s.store.Get(ctx, chatID, userID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return rec.Ignored, nil
}

// AdjustKarma меняет карму на +1 или -1.
func (s *Service) AdjustKarma(ctx context.Context, userID, chatID int64, delta int) error {
	if delta != 1 && delta != -1 {
		return common.ErrInvalidDelta
	}
	return s.store.Adjust(ctx, chatID, userID, delta)
}

// ToggleIgnored переключает игнор пользователя и возвращает новое состояние.
func (s *Service) ToggleIgnored(ctx context.Context, userID, chatID int64) (bool, error) {
	ignored, err := s.store.ToggleIgnored(ctx, chatID, userID)
	if err != nil {
		return false, err
	}

	log.WithFields(log.Fields{
		"chat_id": chatID,
		"user_id": userID,
		"ignored": ignored,
	}).Info("Переключён игнор пользователя")
	return ignored, nil
}

// GetLeaderboard возвращает все записи чата по убыванию кармы.
func (s *Service) GetLeaderboard(ctx context.Context, chatID int64) ([]Record, error) {
	return s.store.Leaderboard(ctx, chatID)
}
