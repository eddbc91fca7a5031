// Package filters решает, с какими чатами и пользователями бот работает.
package filters

import (
	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает только группы. Если задан ALLOWED_CHAT_IDS —
// только перечисленные.
type ChatFilter struct {
	allowed map[int64]struct{}
}

func NewChatFilter(allowedChatIDs []int64) *ChatFilter {
	allowed := make(map[int64]struct{}, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		allowed[id] = struct{}{}
	}
	return &ChatFilter{allowed: allowed}
}

// CheckAccess проверяет, работает ли бот в этом чате.
func (f *ChatFilter) CheckAccess(chat telego.Chat) bool {
	logger := log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   chat.ID,
		"chat_type": chat.Type,
	})

	if chat.Type != "group" && chat.Type != "supergroup" {
		logger.Debug("deny: not a group")
		return false
	}
	if len(f.allowed) == 0 {
		return true
	}
	if _, ok := f.allowed[chat.ID]; !ok {
		logger.Debug("deny: chat not in ALLOWED_CHAT_IDS")
		return false
	}
	return true
}
