// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: еженедельный дайджест кармы в каждый чат.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Communities — чаты, где настроено голосование (реализуется *votes.Service).
type Communities interface {
	Communities(ctx context.Context) ([]int64, error)
}

// Leaderboard публикует рейтинг в чат (реализуется *karma.Handler).
// Чаты с пустым рейтингом пропускаются.
type Leaderboard interface {
	HandleDigest(ctx context.Context, chatID int64)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron        *cron.Cron
	loc         *time.Location
	communities Communities
	leaderboard Leaderboard
}

// NewScheduler создаёт планировщик задач в часовом поясе loc.
func NewScheduler(loc *time.Location, communities Communities, leaderboard Leaderboard) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc)),
		loc:         loc,
		communities: communities,
		leaderboard: leaderboard,
	}
}

// Start регистрирует дайджест по расписанию schedule и запускает cron.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		log.Info("[CRON] Дайджест кармы")
		if err := s.PostDigest(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка дайджеста")
		}
	})
	if err != nil {
		return fmt.Errorf("расписание дайджеста %q: %w", schedule, err)
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"schedule": schedule,
		"timezone": s.loc.String(),
	}).Info("Планировщик задач запущен")
	return nil
}

// PostDigest отправляет рейтинг в каждый чат с настроенными реакциями.
func (s *Scheduler) PostDigest(ctx context.Context) error {
	chats, err := s.communities.Communities(ctx)
	if err != nil {
		return err
	}
	for _, chatID := range chats {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.leaderboard.HandleDigest(ctx, chatID)
	}
	log.WithField("chats", len(chats)).Info("[CRON] Дайджест отправлен")
	return nil
}

// Stop останавливает планировщик и ждёт выполняющиеся задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
