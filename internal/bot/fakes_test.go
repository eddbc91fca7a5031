package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mymmrac/telego"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/features/karma"
	"serotonyl.ru/karma-bot/internal/features/members"
	"serotonyl.ru/karma-bot/internal/features/votes"
)

const (
	testChat int64 = -1001
	testBot  int64 = 999
)

type fakeIndex struct {
	mu       sync.Mutex
	messages map[int]karma.MessageInfo
	err      error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{messages: make(map[int]karma.MessageInfo)}
}

func (f *fakeIndex) Put(ctx context.Context, chatID int64, messageID int, info karma.MessageInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages[messageID] = info
	return nil
}

func (f *fakeIndex) Get(ctx context.Context, chatID int64, messageID int) (*karma.MessageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.messages[messageID]
	if !ok {
		return nil, common.ErrMessageNotFound
	}
	return &info, nil
}

type fakeMembers struct {
	mu      sync.Mutex
	members map[int64]members.Member
	err     error
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{members: make(map[int64]members.Member)}
}

func (f *fakeMembers) Remember(ctx context.Context, userID int64, username, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.members[userID] = members.Member{UserID: userID, Username: username, FirstName: firstName, LastName: lastName}
	return nil
}

func (f *fakeMembers) GetByUserID(ctx context.Context, userID int64) (*members.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return &m, nil
}

func (f *fakeMembers) GetByUsername(ctx context.Context, username string) (*members.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.Username != "" && strings.EqualFold(m.Username, strings.TrimPrefix(username, "@")) {
			m := m
			return &m, nil
		}
	}
	return nil, common.ErrUserNotFound
}

type fakeAPI struct {
	mu          sync.Mutex
	sent        []*telego.SendMessageParams
	nextID      int
	chatMembers map[int64]telego.ChatMember
	chatTitle   string
	memberCalls int
	chatCalls   int
	delay       time.Duration
}

func (f *fakeAPI) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	f.nextID++
	return &telego.Message{MessageID: 1000 + f.nextID, Date: 1767225600, Chat: telego.Chat{ID: params.ChatID.ID}}, nil
}

func (f *fakeAPI) GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	cm, ok := f.chatMembers[params.UserID]
	if !ok {
		return nil, errors.New("Bad Request: user not found")
	}
	return cm, nil
}

func (f *fakeAPI) GetChat(ctx context.Context, params *telego.GetChatParams) (*telego.ChatFullInfo, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	if f.chatTitle == "" {
		return nil, errors.New("Bad Request: chat not found")
	}
	return &telego.ChatFullInfo{ID: params.ChatID.ID, Title: f.chatTitle}, nil
}

type call struct {
	name     string
	chatID   int64
	targetID int64
	kind     votes.Kind
	emoji    votes.Emoji
	event    karma.Event
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) add(c call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recorder) all() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recorder) HandleReaction(ctx context.Context, ev karma.Event) {
	r.add(call{name: "reaction", chatID: ev.ChatID, event: ev})
}

func (r *recorder) HandleKarma(ctx context.Context, chatID, targetID int64) {
	r.add(call{name: "karma", chatID: chatID, targetID: targetID})
}

func (r *recorder) HandleLeaderboard(ctx context.Context, chatID int64) {
	r.add(call{name: "leaderboard", chatID: chatID})
}

func (r *recorder) HandleIgnore(ctx context.Context, chatID, targetID int64) {
	r.add(call{name: "ignore", chatID: chatID, targetID: targetID})
}

func (r *recorder) HandleSetVote(ctx context.Context, chatID int64, kind votes.Kind, emoji votes.Emoji) {
	r.add(call{name: "setvote", chatID: chatID, kind: kind, emoji: emoji})
}

func (r *recorder) HandleShow(ctx context.Context, chatID int64) {
	r.add(call{name: "show", chatID: chatID})
}

type fakeAdmins struct {
	admins map[int64]bool
}

func (f fakeAdmins) IsAdmin(ctx context.Context, msg *telego.Message) (bool, error) {
	return msg.From != nil && f.admins[msg.From.ID], nil
}

type allowAll struct{}

func (allowAll) CheckAccess(chat telego.Chat) bool { return chat.Type != "private" }

type fakeMessenger struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMessenger) SendMessage(ctx context.Context, chatID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
