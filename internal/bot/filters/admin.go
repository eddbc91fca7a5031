package filters

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// ChatMemberGetter — getChatMember из Bot API (реализуется *telego.Bot).
type ChatMemberGetter interface {
	GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error)
}

// AdminChecker проверяет права на настройку кармы в чате:
// создатель и администраторы чата, а также владельцы бота из ADMIN_IDS.
type AdminChecker struct {
	api     ChatMemberGetter
	isOwner func(userID int64) bool
}

func NewAdminChecker(api ChatMemberGetter, isOwner func(userID int64) bool) *AdminChecker {
	return &AdminChecker{api: api, isOwner: isOwner}
}

// IsAdmin сообщает, может ли автор сообщения управлять ботом в чате.
// Анонимный админ пишет от имени самого чата (sender_chat == chat).
func (a *AdminChecker) IsAdmin(ctx context.Context, msg *telego.Message) (bool, error) {
	if msg.SenderChat != nil && msg.SenderChat.ID == msg.Chat.ID {
		return true, nil
	}
	if msg.From == nil {
		return false, nil
	}
	if a.isOwner(msg.From.ID) {
		return true, nil
	}

	cm, err := a.api.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: tu.ID(msg.Chat.ID),
		UserID: msg.From.ID,
	})
	if err != nil {
		return false, fmt.Errorf("проверка прав (chat_id=%d, user_id=%d): %w", msg.Chat.ID, msg.From.ID, err)
	}

	status := cm.MemberStatus()
	log.WithFields(log.Fields{
		"component": "AdminChecker",
		"chat_id":   msg.Chat.ID,
		"user_id":   msg.From.ID,
		"tg_status": status,
	}).Debug("admin check")

	return status == telego.MemberStatusCreator || status == telego.MemberStatusAdministrator, nil
}
