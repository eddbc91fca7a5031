package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/karma-bot/internal/metrics"
)

// MetricsHook считает команды Redis и их длительность.
type MetricsHook struct {
	m *metrics.RedisMetrics
}

var _ redis.Hook = (*MetricsHook)(nil)

func NewMetricsHook(m *metrics.RedisMetrics) *MetricsHook {
	return &MetricsHook{m: m}
}

func (h *MetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.m.ConnectionErrors.Inc()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.m.Observe(cmd.Name(), status(err), time.Since(start))
		return err
	}
}

// Пайплайн считается одной операцией.
func (h *MetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.m.Observe("pipeline", status(err), time.Since(start))
		return err
	}
}

func status(err error) string {
	// redis.Nil означает «ключа нет», это не ошибка
	if err != nil && !errors.Is(err, redis.Nil) {
		return "error"
	}
	return "success"
}
