// Package members — repository.go отвечает за операции с таблицей members.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert добавляет участника или обновляет его имя/username.
func (r *Repository) Upsert(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		WHERE members.username IS DISTINCT FROM EXCLUDED.username
		   OR members.first_name IS DISTINCT FROM EXCLUDED.first_name
		   OR members.last_name IS DISTINCT FROM EXCLUDED.last_name
	`
	if _, err := r.db.Exec(ctx, query, m.UserID, m.Username, m.FirstName, m.LastName); err != nil {
		return fmt.Errorf("ошибка сохранения участника (user_id=%d): %w", m.UserID, err)
	}
	return nil
}

// GetByUserID: found=false, если участника ещё не видели.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Member, bool, error) {
	query := `
		SELECT user_id, username, first_name, last_name, created_at, updated_at
		FROM members
		WHERE user_id = $1
	`
	return r.queryOne(ctx, query, userID)
}

// GetByUsername ищет без учёта регистра. Если username у нескольких
// (кто-то сменил ник), берём самую свежую запись.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Member, bool, error) {
	query := `
		SELECT user_id, username, first_name, last_name, created_at, updated_at
		FROM members
		WHERE LOWER(username) = LOWER($1)
		ORDER BY updated_at DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, username)
}

func (r *Repository) queryOne(ctx context.Context, query string, arg interface{}) (*Member, bool, error) {
	var m Member
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&m.UserID, &m.Username, &m.FirstName, &m.LastName,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения участника (%v): %w", arg, err)
	}
	return &m, true, nil
}
