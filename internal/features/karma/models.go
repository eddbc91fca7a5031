// Package karma реализует систему репутации (кармы) на реакциях.
// models.go описывает записи кармы и события реакций.
package karma

import (
	"time"

	"serotonyl.ru/karma-bot/internal/features/votes"
)

// Record — карма пользователя в одном чате.
type Record struct {
	ChatID  int64 `db:"chat_id"`
	UserID  int64 `db:"user_id"`
	Karma   int   `db:"karma"`
	Ignored bool  `db:"ignored"` // Реакции этого пользователя не учитываются
}

// EventType — реакцию поставили или сняли.
type EventType int

const (
	EventAdd EventType = iota
	EventRemove
)

func (t EventType) String() string {
	if t == EventRemove {
		return "remove"
	}
	return "add"
}

// Event — одна реакция на сообщение (уже разобранная из апдейта Telegram).
type Event struct {
	ChatID    int64       // Чат (сообщество)
	MessageID int         // Сообщение, на которое отреагировали
	UserID    int64       // Кто поставил/снял реакцию
	Emoji     votes.Emoji // Какой эмодзи
	Type      EventType
}

// MessageInfo — то, что нужно знать о сообщении для голосования.
type MessageInfo struct {
	AuthorID  int64
	CreatedAt time.Time
}

// Outcome — чем закончилась обработка реакции.
type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeNotVoteEmoji   Outcome = "not_vote_emoji"
	OutcomeIgnoredReactor Outcome = "ignored_reactor"
	OutcomeStale          Outcome = "stale"
	OutcomeBotAuthor      Outcome = "bot_author"
	OutcomeSelfVote       Outcome = "self_vote"
	OutcomeFailed         Outcome = "failed"
)

// Result — итог обработки реакции. Direction и AuthorID заполнены только для OutcomeApplied.
type Result struct {
	Outcome   Outcome
	Direction int
	AuthorID  int64
	Label     string // "upvote", "remove downvote", ...
}
