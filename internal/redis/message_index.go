package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/features/karma"
)

// MessageTTL чуть больше окна голосования, чтобы граница суток
// решалась сравнением времени, а не исчезновением ключа.
const MessageTTL = 25 * time.Hour

// Key schema:
//
//	karma:msg:{chatID}:{messageID} — hash: author_id, created_at (unix seconds)
func messageKey(chatID int64, messageID int) string {
	return "karma:msg:" + strconv.FormatInt(chatID, 10) + ":" + strconv.Itoa(messageID)
}

// MessageIndex запоминает автора и время сообщений.
type MessageIndex struct {
	rdb *redis.Client
}

func NewMessageIndex(client *Client) *MessageIndex {
	return &MessageIndex{rdb: client.rdb}
}

// Put сохраняет сообщение. Повторная запись того же сообщения безопасна.
func (m *MessageIndex) Put(ctx context.Context, chatID int64, messageID int, info karma.MessageInfo) error {
	key := messageKey(chatID, messageID)
	_, err := m.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"author_id":  strconv.FormatInt(info.AuthorID, 10),
			"created_at": strconv.FormatInt(info.CreatedAt.Unix(), 10),
		})
		pipe.Expire(ctx, key, MessageTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка записи сообщения %s: %w", key, err)
	}
	return nil
}

// Get возвращает сообщение или common.ErrMessageNotFound.
func (m *MessageIndex) Get(ctx context.Context, chatID int64, messageID int) (*karma.MessageInfo, error) {
	key := messageKey(chatID, messageID)
	fields, err := m.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сообщения %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", key, common.ErrMessageNotFound)
	}

	authorID, err := strconv.ParseInt(fields["author_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("битый author_id в %s: %w", key, err)
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("битый created_at в %s: %w", key, err)
	}

	return &karma.MessageInfo{
		AuthorID:  authorID,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}
