package bot

import (
	"context"

	"github.com/mymmrac/telego"

	"serotonyl.ru/karma-bot/internal/features/karma"
)

// API — методы Telegram Bot API, которыми пользуется бот (реализуется *telego.Bot).
type API interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	GetChatMember(ctx context.Context, params *telego.GetChatMemberParams) (telego.ChatMember, error)
	GetChat(ctx context.Context, params *telego.GetChatParams) (*telego.ChatFullInfo, error)
}

// MessageIndex — где бот помнит автора и время сообщений (реализуется *redis.MessageIndex).
type MessageIndex interface {
	Put(ctx context.Context, chatID int64, messageID int, info karma.MessageInfo) error
	Get(ctx context.Context, chatID int64, messageID int) (*karma.MessageInfo, error)
}
