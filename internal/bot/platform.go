package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/features/karma"
	"serotonyl.ru/karma-bot/internal/features/members"
)

// Members — кэш имён участников (реализуется *members.Service).
type Members interface {
	Remember(ctx context.Context, userID int64, username, firstName, lastName string) error
	GetByUserID(ctx context.Context, userID int64) (*members.Member, error)
	GetByUsername(ctx context.Context, username string) (*members.Member, error)
}

// Platform отвечает резолверу кармы на вопросы о сообщениях, людях и чатах.
// Одинаковые одновременные запросы к Telegram схлопываются в один.
type Platform struct {
	api     API
	index   MessageIndex
	members Members
	selfID  int64
	group   singleflight.Group
}

var _ karma.Platform = (*Platform)(nil)

// NewPlatform создаёт адаптер Telegram.
func NewPlatform(api API, index MessageIndex, members Members, selfID int64) *Platform {
	return &Platform{api: api, index: index, members: members, selfID: selfID}
}

// FetchMessage ищет сообщение в индексе.
func (p *Platform) FetchMessage(ctx context.Context, chatID int64, messageID int) (*karma.MessageInfo, error) {
	return p.index.Get(ctx, chatID, messageID)
}

// FetchUser возвращает отображаемое имя: из кэша, иначе через getChatMember.
func (p *Platform) FetchUser(ctx context.Context, chatID, userID int64) (string, error) {
	m, err := p.members.GetByUserID(ctx, userID)
	if err == nil {
		return m.DisplayName(), nil
	}
	if !errors.Is(err, common.ErrUserNotFound) {
		return "", err
	}

	key := "user:" + strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(userID, 10)
	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		cm, err := p.api.GetChatMember(ctx, &telego.GetChatMemberParams{ChatID: tu.ID(chatID), UserID: userID})
		if err != nil {
			return "", fmt.Errorf("user_id=%d: %w", userID, common.ErrUserNotFound)
		}
		u := cm.MemberUser()
		if err := p.members.Remember(ctx, u.ID, u.Username, u.FirstName, u.LastName); err != nil {
			log.WithError(err).WithField("user_id", u.ID).Warn("Не удалось сохранить имя участника")
		}
		return (&members.Member{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}).DisplayName(), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// FetchCommunity возвращает название чата.
func (p *Platform) FetchCommunity(ctx context.Context, chatID int64) (string, error) {
	key := "chat:" + strconv.FormatInt(chatID, 10)
	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		chat, err := p.api.GetChat(ctx, &telego.GetChatParams{ChatID: tu.ID(chatID)})
		if err != nil {
			return "", fmt.Errorf("chat_id=%d: %w", chatID, common.ErrChatNotFound)
		}
		if chat.Title != "" {
			return chat.Title, nil
		}
		return chat.Username, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SelfID — ID бота из getMe.
func (p *Platform) SelfID() int64 {
	return p.selfID
}

// UserIDByUsername ищет пользователя по @username среди тех, кого бот видел.
func (p *Platform) UserIDByUsername(ctx context.Context, username string) (int64, error) {
	m, err := p.members.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return m.UserID, nil
}
