package filters

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	statuses map[int64]telego.ChatMember
	calls    int
}

func (f *fakeMembers) GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error) {
	f.calls++
	cm, ok := f.statuses[params.UserID]
	if !ok {
		return nil, errors.New("Bad Request: user not found")
	}
	return cm, nil
}

func groupMessage(userID int64) *telego.Message {
	return &telego.Message{
		Chat: telego.Chat{ID: -1001, Type: "supergroup"},
		From: &telego.User{ID: userID},
	}
}

func TestChatFilter(t *testing.T) {
	open := NewChatFilter(nil)
	assert.True(t, open.CheckAccess(telego.Chat{ID: -1001, Type: "supergroup"}))
	assert.True(t, open.CheckAccess(telego.Chat{ID: -5, Type: "group"}))
	assert.False(t, open.CheckAccess(telego.Chat{ID: 42, Type: "private"}))
	assert.False(t, open.CheckAccess(telego.Chat{ID: -100777, Type: "channel"}))

	limited := NewChatFilter([]int64{-1001})
	assert.True(t, limited.CheckAccess(telego.Chat{ID: -1001, Type: "supergroup"}))
	assert.False(t, limited.CheckAccess(telego.Chat{ID: -2002, Type: "supergroup"}))
}

func TestAdminChecker(t *testing.T) {
	api := &fakeMembers{statuses: map[int64]telego.ChatMember{
		1: &telego.ChatMemberOwner{Status: telego.MemberStatusCreator, User: telego.User{ID: 1}},
		2: &telego.ChatMemberAdministrator{Status: telego.MemberStatusAdministrator, User: telego.User{ID: 2}},
		3: &telego.ChatMemberMember{Status: telego.MemberStatusMember, User: telego.User{ID: 3}},
	}}
	checker := NewAdminChecker(api, func(id int64) bool { return id == 100 })
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"creator", 1, true},
		{"administrator", 2, true},
		{"member", 3, false},
		{"bot owner", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := checker.IsAdmin(ctx, groupMessage(tt.userID))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestAdminChecker_AnonymousAdmin(t *testing.T) {
	api := &fakeMembers{}
	checker := NewAdminChecker(api, func(int64) bool { return false })

	msg := groupMessage(1087968824)
	msg.SenderChat = &telego.Chat{ID: -1001}

	ok, err := checker.IsAdmin(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, api.calls)
}

func TestAdminChecker_APIError(t *testing.T) {
	checker := NewAdminChecker(&fakeMembers{}, func(int64) bool { return false })

	ok, err := checker.IsAdmin(context.Background(), groupMessage(404))
	assert.Error(t, err)
	assert.False(t, ok)
}
