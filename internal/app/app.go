// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, Redis, репозитории, сервисы,
// обработчики, фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/bot"
	"serotonyl.ru/karma-bot/internal/bot/filters"
	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/config"
	"serotonyl.ru/karma-bot/internal/db/postgres"
	"serotonyl.ru/karma-bot/internal/features/karma"
	"serotonyl.ru/karma-bot/internal/features/members"
	"serotonyl.ru/karma-bot/internal/features/votes"
	"serotonyl.ru/karma-bot/internal/jobs"
	"serotonyl.ru/karma-bot/internal/metrics"
	"serotonyl.ru/karma-bot/internal/redis"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Registry  *prometheus.Registry
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	registry := metrics.NewRegistry()

	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Redis (индекс сообщений) ===
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL,
		redis.NewMetricsHook(metrics.NewRedisMetrics(registry)))
	if err != nil {
		pool.Close()
		return nil, err
	}

	// === 3. Telegram Bot API ===
	api, err := telego.NewBot(cfg.TelegramBotToken,
		telego.WithLogger(log.WithField("component", "telego")))
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := api.GetMe(ctx)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("ошибка getMe: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	// === 4. Репозитории ===
	memberRepo := members.NewRepository(pool)
	voteRepo := votes.NewRepository(pool)
	karmaRepo := karma.NewRepository(pool)
	messageIndex := redis.NewMessageIndex(redisClient)

	// === 5. Сервисы ===
	memberService := members.NewService(memberRepo)
	voteService := votes.NewService(voteRepo)
	karmaService := karma.NewService(karmaRepo)

	platform := bot.NewPlatform(api, messageIndex, memberService, me.ID)
	resolver := karma.NewResolver(voteService, karmaService, platform, clockwork.NewRealClock())

	// === 6. Обработчики ===
	sender := bot.NewSender(api, messageIndex, me.ID)
	var out common.Messenger = sender

	karmaHandler := karma.NewHandler(karmaService, resolver, platform, out,
		metrics.NewReactionMetrics(registry), cfg.KarmaLeaderboardSize)
	voteHandler := votes.NewHandler(voteService, out)

	// === 7. Собираем бота ===
	b := bot.New(cfg, bot.Deps{
		Poller:      api,
		BotUsername: me.Username,
		Index:       messageIndex,
		Members:     memberService,
		Users:       platform,
		Out:         out,
		Karma:       karmaHandler,
		Votes:       voteHandler,
		ChatFilter:  filters.NewChatFilter(cfg.AllowedChatIDs),
		Admins:      filters.NewAdminChecker(api, cfg.IsOwner),
	})

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(common.LoadLocation(cfg.AppTimezone), voteService, karmaHandler)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		Redis:     redisClient,
		Registry:  registry,
	}, nil
}

// Close освобождает соединения с хранилищами.
func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		log.WithError(err).Warn("Ошибка закрытия Redis")
	}
	a.DB.Close()
}
