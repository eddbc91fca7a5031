// Package votes — repository.go выполняет операции с таблицей vote_configs.
package votes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/karma-bot/internal/common"
)

// Repository работает с таблицей vote_configs.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий настроек голосования.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get возвращает настройку чата. found=false, если чат ещё не настраивали.
func (r *Repository) Get(ctx context.Context, chatID int64) (VoteConfig, bool, error) {
	query := `
		SELECT chat_id, upvote_emoji, downvote_emoji
		FROM vote_configs WHERE chat_id = $1
	`
	var c VoteConfig
	err := r.db.QueryRow(ctx, query, chatID).Scan(&c.ChatID, &c.Upvote, &c.Downvote)
	if errors.Is(err, pgx.ErrNoRows) {
		return VoteConfig{}, false, nil
	}
	if err != nil {
		return VoteConfig{}, false, fmt.Errorf("ошибка чтения настройки реакций (chat_id=%d): %w", chatID, err)
	}
	return c, true, nil
}

// Set записывает эмодзи для одного типа голоса (upsert). Второй тип не трогаем.
func (r *Repository) Set(ctx context.Context, chatID int64, kind Kind, key string) error {
	var query string
	switch kind {
	case KindUpvote:
		query = `
			INSERT INTO vote_configs (chat_id, upvote_emoji) VALUES ($1, $2)
			ON CONFLICT (chat_id) DO UPDATE
			SET upvote_emoji = EXCLUDED.upvote_emoji, updated_at = NOW()
		`
	case KindDownvote:
		query = `
			INSERT INTO vote_configs (chat_id, downvote_emoji) VALUES ($1, $2)
			ON CONFLICT (chat_id) DO UPDATE
			SET downvote_emoji = EXCLUDED.downvote_emoji, updated_at = NOW()
		`
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownVoteKind, kind)
	}

	if _, err := r.db.Exec(ctx, query, chatID, key); err != nil {
		return fmt.Errorf("ошибка записи настройки реакций (chat_id=%d): %w", chatID, err)
	}
	return nil
}

// ChatIDs возвращает все чаты, где настроен хотя бы один тип голоса.
func (r *Repository) ChatIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT chat_id FROM vote_configs
		WHERE upvote_emoji IS NOT NULL OR downvote_emoji IS NOT NULL
		ORDER BY chat_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса чатов: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}
