// Package members хранит имена участников, которых бот видел в чатах.
// Telegram не умеет искать пользователя по @username, поэтому нужен свой кэш.
// models.go описывает запись участника.
package members

import "time"

// Member — участник, встреченный хотя бы в одном чате.
type Member struct {
	UserID    int64     `db:"user_id"`    // Telegram user ID
	Username  string    `db:"username"`   // @username (может быть пустым)
	FirstName string    `db:"first_name"` // Имя пользователя
	LastName  string    `db:"last_name"`  // Фамилия (может быть пустой)
	CreatedAt time.Time `db:"created_at"` // Когда впервые увидели
	UpdatedAt time.Time `db:"updated_at"` // Последнее обновление имени
}

// DisplayName возвращает отображаемое имя пользователя.
// Если есть @username — возвращает его, иначе — имя + фамилию.
func (m *Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	name := m.FirstName
	if m.LastName != "" {
		name += " " + m.LastName
	}
	return name
}
