// Package members — service.go запоминает и отдаёт имена участников.
package members

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/common"
)

// Store — хранилище участников. Реализуется *Repository.
type Store interface {
	Upsert(ctx context.Context, m *Member) error
	GetByUserID(ctx context.Context, userID int64) (*Member, bool, error)
	GetByUsername(ctx context.Context, username string) (*Member, bool, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Remember сохраняет имя пользователя, увиденного в сообщении или реакции.
func (s *Service) Remember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	if userID == 0 {
		return nil
	}
	m := &Member{
		UserID:    userID,
		Username:  strings.TrimPrefix(username, "@"),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.store.Upsert(ctx, m); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"username": m.Username,
	}).Debug("Участник запомнен")
	return nil
}

// GetByUserID возвращает участника или common.ErrUserNotFound.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	m, found, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("user_id=%d: %w", userID, common.ErrUserNotFound)
	}
	return m, nil
}

// GetByUsername принимает username с @ или без.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Member, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, common.ErrUserNotFound
	}
	m, found, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("@%s: %w", username, common.ErrUserNotFound)
	}
	return m, nil
}
