// Package redis хранит короткоживущие данные бота в Redis.
// Сейчас это индекс сообщений за последние сутки: Telegram не отдаёт
// сообщение по ID, а автор и время нужны для подсчёта голосов.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Client — обёртка над go-redis.
type Client struct {
	rdb *redis.Client
}

// NewClient подключается по URL (redis://host:6379/0) и проверяет соединение.
func NewClient(ctx context.Context, redisURL string, hooks ...redis.Hook) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	for _, h := range hooks {
		rdb.AddHook(h)
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	log.WithField("addr", opts.Addr).Info("Подключение к Redis установлено")
	return &Client{rdb: rdb}, nil
}

// Close закрывает соединение.
func (c *Client) Close() error {
	return c.rdb.Close()
}
