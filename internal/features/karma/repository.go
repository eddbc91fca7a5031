// Package karma — repository.go выполняет операции с таблицей karma.
package karma

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей karma.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий кармы.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get возвращает запись кармы. found=false, если пользователь в чате ещё не встречался.
func (r *Repository) Get(ctx context.Context, chatID, userID int64) (Record, bool, error) {
	query := `
		SELECT chat_id, user_id, karma, ignored
		FROM karma WHERE chat_id = $1 AND user_id = $2
	`
	var rec Record
	err := r.db.QueryRow(ctx, query, chatID, userID).Scan(&rec.ChatID, &rec.UserID, &rec.Karma, &rec.Ignored)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("ошибка чтения кармы (chat_id=%d, user_id=%d): %w", chatID, userID, err)
	}
	return rec, true, nil
}

// Adjust атомарно меняет карму на delta, создавая запись при необходимости.
// Одна команда INSERT ... ON CONFLICT: параллельные голоса не теряются.
func (r *Repository) Adjust(ctx context.Context, chatID, userID int64, delta int) error {
	query := `
		INSERT INTO karma (chat_id, user_id, karma)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, user_id) DO UPDATE
		SET karma = karma.karma + EXCLUDED.karma, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, chatID, userID, delta); err != nil {
		return fmt.Errorf("ошибка изменения кармы (chat_id=%d, user_id=%d): %w", chatID, userID, err)
	}
	return nil
}

// ToggleIgnored переключает флаг ignored и возвращает новое значение.
// Отсутствующая запись считается ignored=false, поэтому при вставке флаг становится true.
func (r *Repository) ToggleIgnored(ctx context.Context, chatID, userID int64) (bool, error) {
	query := `
		INSERT INTO karma (chat_id, user_id, ignored)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (chat_id, user_id) DO UPDATE
		SET ignored = NOT karma.ignored, updated_at = NOW()
		RETURNING ignored
	`
	var ignored bool
	if err := r.db.QueryRow(ctx, query, chatID, userID).Scan(&ignored); err != nil {
		return false, fmt.Errorf("ошибка переключения игнора (chat_id=%d, user_id=%d): %w", chatID, userID, err)
	}
	return ignored, nil
}

// Leaderboard возвращает все записи чата по убыванию кармы.
// Порядок при равной карме не гарантирован.
func (r *Repository) Leaderboard(ctx context.Context, chatID int64) ([]Record, error) {
	query := `
		SELECT chat_id, user_id, karma, ignored
		FROM karma WHERE chat_id = $1
		ORDER BY karma DESC
	`
	rows, err := r.db.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса рейтинга: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ChatID, &rec.UserID, &rec.Karma, &rec.Ignored); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}
