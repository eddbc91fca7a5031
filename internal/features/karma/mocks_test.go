package karma

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/features/votes"
)

// --- Mocks ---

type recordKey struct{ chatID, userID int64 }

type mockStore struct {
	mu      sync.Mutex
	records map[recordKey]Record
	err     error
	adjusts int
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[recordKey]Record)}
}

func (m *mockStore) Get(ctx context.Context, chatID, userID int64) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Record{}, false, m.err
	}
	rec, ok := m.records[recordKey{chatID, userID}]
	return rec, ok, nil
}

func (m *mockStore) Adjust(ctx context.Context, chatID, userID int64, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.adjusts++
	k := recordKey{chatID, userID}
	rec := m.records[k]
	rec.ChatID, rec.UserID = chatID, userID
	rec.Karma += delta
	m.records[k] = rec
	return nil
}

func (m *mockStore) ToggleIgnored(ctx context.Context, chatID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	k := recordKey{chatID, userID}
	rec := m.records[k]
	rec.ChatID, rec.UserID = chatID, userID
	rec.Ignored = !rec.Ignored
	m.records[k] = rec
	return rec.Ignored, nil
}

func (m *mockStore) Leaderboard(ctx context.Context, chatID int64) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []Record
	for k, rec := range m.records {
		if k.chatID == chatID {
			out = append(out, rec)
		}
	}
	// Сортировка вставками: записей в тестах мало
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Karma > out[j-1].Karma; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (m *mockStore) set(chatID, userID int64, karma int, ignored bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{chatID, userID}] = Record{ChatID: chatID, UserID: userID, Karma: karma, Ignored: ignored}
}

func (m *mockStore) adjustCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adjusts
}

// mockVoteStore — хранилище настроек реакций для настоящего votes.Service.
type mockVoteStore struct {
	mu      sync.Mutex
	configs map[int64]votes.VoteConfig
}

func (m *mockVoteStore) Get(ctx context.Context, chatID int64) (votes.VoteConfig, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[chatID]
	return c, ok, nil
}

func (m *mockVoteStore) Set(ctx context.Context, chatID int64, kind votes.Kind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.configs[chatID]
	c.ChatID = chatID
	if kind == votes.KindUpvote {
		c.Upvote = &key
	} else {
		c.Downvote = &key
	}
	m.configs[chatID] = c
	return nil
}

func (m *mockVoteStore) ChatIDs(ctx context.Context) ([]int64, error) {
	return nil, nil
}

type mockPlatform struct {
	mu         sync.Mutex
	selfID     int64
	messages   map[int]MessageInfo
	names      map[int64]string
	messageErr error
	nameErr    error
	community  string
}

func newMockPlatform() *mockPlatform {
	return &mockPlatform{
		selfID:    botID,
		messages:  make(map[int]MessageInfo),
		names:     make(map[int64]string),
		community: "Тестовый чат",
	}
}

func (m *mockPlatform) FetchMessage(ctx context.Context, chatID int64, messageID int) (*MessageInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messageErr != nil {
		return nil, m.messageErr
	}
	msg, ok := m.messages[messageID]
	if !ok {
		return nil, common.ErrMessageNotFound
	}
	return &msg, nil
}

func (m *mockPlatform) FetchUser(ctx context.Context, chatID, userID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameErr != nil {
		return "", m.nameErr
	}
	name, ok := m.names[userID]
	if !ok {
		return "", common.ErrUserNotFound
	}
	return name, nil
}

func (m *mockPlatform) FetchCommunity(ctx context.Context, chatID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameErr != nil {
		return "", m.nameErr
	}
	return m.community, nil
}

func (m *mockPlatform) SelfID() int64 { return m.selfID }

func (m *mockPlatform) addMessage(id int, authorID int64, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[id] = MessageInfo{AuthorID: authorID, CreatedAt: createdAt}
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type mockMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *mockMessenger) SendMessage(ctx context.Context, chatID int64, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{chatID, text})
}

func (m *mockMessenger) last(t *testing.T) sentMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// --- Helpers ---

const (
	chatID  int64 = -1001
	botID   int64 = 999
	alice   int64 = 1
	bob     int64 = 2
	charlie int64 = 3
)

var (
	thumbsUp   = votes.Emoji{Name: "👍"}
	thumbsDown = votes.Emoji{Name: "👎"}
	heart      = votes.Emoji{Name: "❤"}
)

var errDB = errors.New("connection refused")

// configuredVotes возвращает сервис голосования с 👍/👎 в chatID.
func configuredVotes(t *testing.T) *votes.Service {
	t.Helper()
	svc := votes.NewService(&mockVoteStore{configs: make(map[int64]votes.VoteConfig)})
	ctx := context.Background()
	require.NoError(t, svc.SetVoteEmoji(ctx, thumbsUp, chatID, votes.KindUpvote))
	require.NoError(t, svc.SetVoteEmoji(ctx, thumbsDown, chatID, votes.KindDownvote))
	return svc
}

func reaction(userID int64, messageID int, emoji votes.Emoji, typ EventType) Event {
	return Event{ChatID: chatID, MessageID: messageID, UserID: userID, Emoji: emoji, Type: typ}
}

func userName(id int64) string { return fmt.Sprintf("user%d", id) }
