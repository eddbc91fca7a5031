// Package votes хранит настройку реакций голосования для каждого чата:
// какой эмодзи считается апвоутом, а какой — даунвоутом.
// models.go описывает эмодзи и запись настройки.
package votes

import "strings"

// variationSelector (U+FE0F) клавиатуры добавляют к части эмодзи,
// а в реакциях Telegram его нет: ❤️ из сообщения и ❤ из реакции.
const variationSelector = "\uFE0F"

// Kind — тип голоса.
type Kind string

const (
	KindUpvote   Kind = "upvote"
	KindDownvote Kind = "downvote"
)

// Emoji — эмодзи из реакции или из команды настройки.
// Кастомный эмодзи опознаётся по custom_emoji_id, обычный — по самому символу.
type Emoji struct {
	Custom bool   // Кастомный эмодзи (из стикерпака)
	ID     string // custom_emoji_id, только для кастомных
	Name   string // Символ эмодзи (для кастомных — символ-заменитель)
}

// Key возвращает строку, по которой эмодзи сравнивается с настройкой чата.
// У обычного эмодзи вырезается variation selector.
func (e Emoji) Key() string {
	if e.Custom {
		return e.ID
	}
	return strings.ReplaceAll(e.Name, variationSelector, "")
}

// String — для логов и ответов бота.
func (e Emoji) String() string {
	if e.Custom {
		if e.Name != "" {
			return e.Name + " (" + e.ID + ")"
		}
		return "custom:" + e.ID
	}
	return e.Name
}

// VoteConfig — настройка реакций одного чата.
// nil в поле означает, что этот тип голоса ещё не настроен.
type VoteConfig struct {
	ChatID   int64   `db:"chat_id"`
	Upvote   *string `db:"upvote_emoji"`
	Downvote *string `db:"downvote_emoji"`
}

// Matches проверяет, совпадает ли ключ эмодзи с одним из настроенных голосов.
func (c *VoteConfig) Matches(key string) bool {
	return c.IsUpvote(key) || (c.Downvote != nil && *c.Downvote == key)
}

// IsUpvote проверяет, совпадает ли ключ эмодзи с апвоутом.
func (c *VoteConfig) IsUpvote(key string) bool {
	return c.Upvote != nil && *c.Upvote == key
}
