package bot

import (
	"github.com/mymmrac/telego"

	"serotonyl.ru/karma-bot/internal/features/karma"
	"serotonyl.ru/karma-bot/internal/features/votes"
)

// ReactionEvents превращает апдейт message_reaction в отдельные события.
// Telegram присылает старый и новый набор реакций пользователя целиком,
// поэтому снятые и поставленные эмодзи вычисляются разницей наборов.
// Анонимные реакции (от имени канала или чата) и платные звёзды пропускаются.
func ReactionEvents(upd *telego.MessageReactionUpdated) []karma.Event {
	if upd == nil || upd.User == nil {
		return nil
	}

	oldSet := emojiSet(upd.OldReaction)
	newSet := emojiSet(upd.NewReaction)

	var events []karma.Event
	for _, e := range emojis(upd.OldReaction) {
		if _, kept := newSet[e.Key()]; !kept {
			events = append(events, reactionEvent(upd, e, karma.EventRemove))
		}
	}
	for _, e := range emojis(upd.NewReaction) {
		if _, had := oldSet[e.Key()]; !had {
			events = append(events, reactionEvent(upd, e, karma.EventAdd))
		}
	}
	return events
}

func reactionEvent(upd *telego.MessageReactionUpdated, e votes.Emoji, typ karma.EventType) karma.Event {
	return karma.Event{
		ChatID:    upd.Chat.ID,
		MessageID: upd.MessageID,
		UserID:    upd.User.ID,
		Emoji:     e,
		Type:      typ,
	}
}

// emojis сохраняет порядок реакций из апдейта.
func emojis(reactions []telego.ReactionType) []votes.Emoji {
	out := make([]votes.Emoji, 0, len(reactions))
	for _, r := range reactions {
		if e, ok := toEmoji(r); ok {
			out = append(out, e)
		}
	}
	return out
}

func emojiSet(reactions []telego.ReactionType) map[string]struct{} {
	set := make(map[string]struct{}, len(reactions))
	for _, e := range emojis(reactions) {
		set[e.Key()] = struct{}{}
	}
	return set
}

func toEmoji(r telego.ReactionType) (votes.Emoji, bool) {
	switch rt := r.(type) {
	case *telego.ReactionTypeEmoji:
		return votes.Emoji{Name: rt.Emoji}, rt.Emoji != ""
	case *telego.ReactionTypeCustomEmoji:
		return votes.Emoji{Custom: true, ID: rt.CustomEmojiID}, rt.CustomEmojiID != ""
	default:
		return votes.Emoji{}, false
	}
}
