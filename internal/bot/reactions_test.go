package bot

import (
	"context"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/karma-bot/internal/features/karma"
	"serotonyl.ru/karma-bot/internal/features/votes"
)

func emojiReaction(e string) telego.ReactionType {
	return &telego.ReactionTypeEmoji{Type: "emoji", Emoji: e}
}

func customReaction(id string) telego.ReactionType {
	return &telego.ReactionTypeCustomEmoji{Type: "custom_emoji", CustomEmojiID: id}
}

func reactionUpdate(oldR, newR []telego.ReactionType) *telego.MessageReactionUpdated {
	return &telego.MessageReactionUpdated{
		Chat:        telego.Chat{ID: -1001, Type: "supergroup"},
		MessageID:   10,
		User:        &telego.User{ID: 2, FirstName: "Боб"},
		OldReaction: oldR,
		NewReaction: newR,
	}
}

func TestReactionEvents_Add(t *testing.T) {
	events := ReactionEvents(reactionUpdate(nil, []telego.ReactionType{emojiReaction("👍")}))

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, int64(-1001), ev.ChatID)
	assert.Equal(t, 10, ev.MessageID)
	assert.Equal(t, int64(2), ev.UserID)
	assert.Equal(t, "👍", ev.Emoji.Key())
	assert.Equal(t, karma.EventAdd, ev.Type)
}

func TestReactionEvents_Replace(t *testing.T) {
	events := ReactionEvents(reactionUpdate(
		[]telego.ReactionType{emojiReaction("👍")},
		[]telego.ReactionType{emojiReaction("👎")},
	))

	require.Len(t, events, 2)
	assert.Equal(t, karma.EventRemove, events[0].Type)
	assert.Equal(t, "👍", events[0].Emoji.Key())
	assert.Equal(t, karma.EventAdd, events[1].Type)
	assert.Equal(t, "👎", events[1].Emoji.Key())
}

func TestReactionEvents_UnchangedEmojiIgnored(t *testing.T) {
	events := ReactionEvents(reactionUpdate(
		[]telego.ReactionType{emojiReaction("👍")},
		[]telego.ReactionType{emojiReaction("👍"), emojiReaction("🔥")},
	))

	require.Len(t, events, 1)
	assert.Equal(t, "🔥", events[0].Emoji.Key())
	assert.Equal(t, karma.EventAdd, events[0].Type)
}

func TestReactionEvents_CustomEmoji(t *testing.T) {
	events := ReactionEvents(reactionUpdate(
		[]telego.ReactionType{customReaction("5368324170671202286")},
		nil,
	))

	require.Len(t, events, 1)
	assert.True(t, events[0].Emoji.Custom)
	assert.Equal(t, "5368324170671202286", events[0].Emoji.Key())
	assert.Equal(t, karma.EventRemove, events[0].Type)
}

func TestReactionEvents_SkipsAnonymousAndPaid(t *testing.T) {
	anon := reactionUpdate(nil, []telego.ReactionType{emojiReaction("👍")})
	anon.User = nil
	anon.ActorChat = &telego.Chat{ID: -1001}
	assert.Empty(t, ReactionEvents(anon))

	paid := reactionUpdate(nil, []telego.ReactionType{&telego.ReactionTypePaid{Type: "paid"}})
	assert.Empty(t, ReactionEvents(paid))

	assert.Empty(t, ReactionEvents(nil))
}

// voteStore — настройка реакций в памяти.
type voteStore struct {
	configs map[int64]votes.VoteConfig
}

func (s *voteStore) Get(ctx context.Context, chatID int64) (votes.VoteConfig, bool, error) {
	c, ok := s.configs[chatID]
	return c, ok, nil
}

func (s *voteStore) Set(ctx context.Context, chatID int64, kind votes.Kind, key string) error {
	c := s.configs[chatID]
	c.ChatID = chatID
	if kind == votes.KindUpvote {
		c.Upvote = &key
	} else {
		c.Downvote = &key
	}
	s.configs[chatID] = c
	return nil
}

func (s *voteStore) ChatIDs(ctx context.Context) ([]int64, error) {
	var out []int64
	for id := range s.configs {
		out = append(out, id)
	}
	return out, nil
}

func TestReactionEvents_HeartMatchesTypedUpvote(t *testing.T) {
	ctx := context.Background()
	svc := votes.NewService(&voteStore{configs: make(map[int64]votes.VoteConfig)})

	parser := NewCommandParser("karma_bot")
	cmd, args, ok := parser.ParseCommand("!setupvote \u2764\uFE0F")
	require.True(t, ok)
	require.Equal(t, "setupvote", cmd)
	msg := &telego.Message{Text: "!setupvote \u2764\uFE0F"}
	require.NoError(t, svc.SetVoteEmoji(ctx, commandEmoji(msg, args), -1001, votes.KindUpvote))

	events := ReactionEvents(reactionUpdate(nil, []telego.ReactionType{emojiReaction("\u2764")}))
	require.Len(t, events, 1)

	isVote, err := svc.IsVoteEmoji(ctx, events[0].Emoji, events[0].ChatID)
	require.NoError(t, err)
	assert.True(t, isVote)
}
