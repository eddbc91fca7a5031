// Package pgtest поднимает PostgreSQL в контейнере для интеграционных тестов.
// Контейнер стартует один раз на пакет (из TestMain), таблицы чистятся после каждого теста.
package pgtest

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"serotonyl.ru/karma-bot/internal/db/postgres"
)

// Pool — общий пул для тестов пакета. nil в режиме -short.
var Pool *pgxpool.Pool

// Main запускает контейнер, применяет миграции и прогоняет тесты пакета.
// Вызывается из TestMain: os.Exit(pgtest.Main(m)).
func Main(m *testing.M) int {
	flag.Parse()

	// В -short режиме контейнер не поднимаем, интеграционные тесты пропустятся сами
	if testing.Short() {
		return m.Run()
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("karma_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		return 1
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
		}
	}()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		return 1
	}

	Pool, err = postgres.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		return 1
	}
	defer Pool.Close()

	if err := postgres.Migrate(ctx, Pool); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		return 1
	}

	return m.Run()
}

// Setup возвращает пул и чистит перечисленные таблицы после теста.
func Setup(t *testing.T, tables ...string) *pgxpool.Pool {
	t.Helper()
	if testing.Short() || Pool == nil {
		t.Skip("Skipping integration test in short mode")
	}

	t.Cleanup(func() {
		for _, table := range tables {
			if _, err := Pool.Exec(context.Background(), "TRUNCATE "+table+" CASCADE"); err != nil {
				t.Logf("Failed to truncate %s: %v", table, err)
			}
		}
	})

	return Pool
}
