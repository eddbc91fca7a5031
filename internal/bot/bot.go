// Package bot содержит главный модуль бота: long polling, маршрутизацию
// апдейтов и команд.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/karma-bot/internal/bot/middleware"
	"serotonyl.ru/karma-bot/internal/common"
	"serotonyl.ru/karma-bot/internal/config"
	"serotonyl.ru/karma-bot/internal/features/karma"
	"serotonyl.ru/karma-bot/internal/features/votes"
)

const helpText = `⭐ Карма на реакциях

Ставьте реакцию-апвоут или реакцию-даунвоут на сообщения, и карма автора изменится. Голоса за сообщения старше суток не считаются.

Команды:
!карма [@user] — карма (своя или чужая)
!топ — рейтинг чата
!реакции — какие эмодзи сейчас голосуют

Для админов:
!setupvote <эмодзи> — задать апвоут
!setdownvote <эмодзи> — задать даунвоут
!игнор @user — перестать (или снова начать) учитывать реакции пользователя`

// Poller — источник апдейтов (реализуется *telego.Bot).
type Poller interface {
	UpdatesViaLongPolling(ctx context.Context, params *telego.GetUpdatesParams, options ...telego.LongPollingOption) (<-chan telego.Update, error)
}

// KarmaHandler — обработчик реакций и команд кармы (реализуется *karma.Handler).
type KarmaHandler interface {
	HandleReaction(ctx context.Context, ev karma.Event)
	HandleKarma(ctx context.Context, chatID, targetID int64)
	HandleLeaderboard(ctx context.Context, chatID int64)
	HandleIgnore(ctx context.Context, chatID, targetID int64)
}

// VotesHandler — команды настройки реакций (реализуется *votes.Handler).
type VotesHandler interface {
	HandleSetVote(ctx context.Context, chatID int64, kind votes.Kind, emoji votes.Emoji)
	HandleShow(ctx context.Context, chatID int64)
}

// ChatFilter решает, работает ли бот в чате (реализуется *filters.ChatFilter).
type ChatFilter interface {
	CheckAccess(chat telego.Chat) bool
}

// AdminChecker проверяет права администратора (реализуется *filters.AdminChecker).
type AdminChecker interface {
	IsAdmin(ctx context.Context, msg *telego.Message) (bool, error)
}

// UserLookup ищет пользователя по @username (реализуется *Platform).
type UserLookup interface {
	UserIDByUsername(ctx context.Context, username string) (int64, error)
}

// Deps — всё, что нужно боту.
type Deps struct {
	Poller      Poller
	BotUsername string
	Index       MessageIndex
	Members     Members
	Users       UserLookup
	Out         common.Messenger
	Karma       KarmaHandler
	Votes       VotesHandler
	ChatFilter  ChatFilter
	Admins      AdminChecker
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	poller Poller
	cfg    *config.Config

	chatFilter ChatFilter
	admins     AdminChecker
	parser     *CommandParser

	index   MessageIndex
	members Members
	users   UserLookup
	out     common.Messenger

	karmaHandler KarmaHandler
	votesHandler VotesHandler

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(cfg *config.Config, d Deps) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		poller:       d.Poller,
		cfg:          cfg,
		chatFilter:   d.ChatFilter,
		admins:       d.Admins,
		parser:       NewCommandParser(d.BotUsername),
		index:        d.Index,
		members:      d.Members,
		users:        d.Users,
		out:          d.Out,
		karmaHandler: d.Karma,
		votesHandler: d.Votes,
		inflight:     make(chan struct{}, maxInFlight),
	}
}

// Start запускает long polling и блокируется до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.poller.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: b.cfg.BotUpdateTimeoutSeconds,
		// message_reaction не приходит, пока его не запросить явно
		AllowedUpdates: []string{"message", "message_reaction"},
	})
	if err != nil {
		return fmt.Errorf("ошибка запуска long polling: %w", err)
	}

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	b.consume(ctx, updates)
	return nil
}

func (b *Bot) consume(ctx context.Context, updates <-chan telego.Update) {
	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.wait()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.wait()
				return
			}

			// лимит параллелизма; отмена ctx не ждёт свободного слота
			select {
			case b.inflight <- struct{}{}:
			case <-ctx.Done():
				log.Info("Бот останавливается (ctx done)...")
				b.wait()
				return
			}
			go func(upd telego.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// wait дожидается апдейтов, которые ещё обрабатываются.
func (b *Bot) wait() {
	for i := 0; i < cap(b.inflight); i++ {
		b.inflight <- struct{}{}
	}
	for i := 0; i < cap(b.inflight); i++ {
		<-b.inflight
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	defer middleware.RecoverFromPanic(update.UpdateID)

	switch {
	case update.MessageReaction != nil:
		b.handleReaction(ctx, update.MessageReaction)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleReaction(ctx context.Context, r *telego.MessageReactionUpdated) {
	middleware.LogReaction(r)

	if !b.chatFilter.CheckAccess(r.Chat) {
		return
	}
	if r.User != nil {
		b.remember(ctx, r.User)
	}

	for _, ev := range ReactionEvents(r) {
		b.karmaHandler.HandleReaction(ctx, ev)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *telego.Message) {
	middleware.LogMessage(message)

	if message.Chat.Type == "private" {
		if cmd, _, ok := b.parser.ParseCommand(message.Text); ok && (cmd == "start" || cmd == "help") {
			b.out.SendMessage(ctx, message.Chat.ID, helpText+"\n\nДобавьте меня в группу, чтобы начать.")
		}
		return
	}

	if !b.chatFilter.CheckAccess(message.Chat) {
		return
	}

	// Запоминаем сообщение: позже на него поставят реакцию
	if message.From != nil {
		indexMessage(ctx, b.index, message.Chat.ID, message.MessageID, message.From.ID, message.Date)
		b.remember(ctx, message.From)
	}
	if reply := message.ReplyToMessage; reply != nil && reply.From != nil {
		b.remember(ctx, reply.From)
	}
	for i := range message.NewChatMembers {
		b.remember(ctx, &message.NewChatMembers[i])
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("parsed command")

	b.routeCommand(ctx, message, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, msg *telego.Message, cmd string, args []string) {
	chatID := msg.Chat.ID

	switch cmd {
	case "start", "help":
		b.out.SendMessage(ctx, chatID, helpText)

	case "karma", "карма":
		targetID, err := b.resolveTarget(ctx, msg, args)
		if errors.Is(err, common.ErrTargetRequired) && msg.From != nil {
			targetID, err = msg.From.ID, nil
		}
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		b.karmaHandler.HandleKarma(ctx, chatID, targetID)

	case "leaderboard", "топ":
		b.karmaHandler.HandleLeaderboard(ctx, chatID)

	case "reactions", "реакции":
		b.votesHandler.HandleShow(ctx, chatID)

	case "ignore", "игнор":
		if !b.requireAdmin(ctx, msg) {
			return
		}
		targetID, err := b.resolveTarget(ctx, msg, args)
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		b.karmaHandler.HandleIgnore(ctx, chatID, targetID)

	case "setupvote", "setdownvote":
		if !b.requireAdmin(ctx, msg) {
			return
		}
		kind := votes.KindUpvote
		if cmd == "setdownvote" {
			kind = votes.KindDownvote
		}
		b.votesHandler.HandleSetVote(ctx, chatID, kind, commandEmoji(msg, args))
	}
}

// resolveTarget находит пользователя, о котором команда: ответ на сообщение,
// упоминание без username или @username из аргументов.
func (b *Bot) resolveTarget(ctx context.Context, msg *telego.Message, args []string) (int64, error) {
	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		return reply.From.ID, nil
	}
	if u := mentionedUser(msg); u != nil {
		b.remember(ctx, u)
		return u.ID, nil
	}
	if username := mentionedUsername(args); username != "" {
		return b.users.UserIDByUsername(ctx, username)
	}
	return 0, common.ErrTargetRequired
}

func (b *Bot) requireAdmin(ctx context.Context, msg *telego.Message) bool {
	ok, err := b.admins.IsAdmin(ctx, msg)
	if err != nil {
		log.WithError(err).WithField("chat_id", msg.Chat.ID).Warn("Не удалось проверить права")
	}
	if !ok {
		b.out.SendMessage(ctx, msg.Chat.ID, "❌ "+common.ErrNotAdmin.Error())
	}
	return ok
}

func (b *Bot) replyError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrTargetRequired):
		b.out.SendMessage(ctx, chatID, "❌ "+common.ErrTargetRequired.Error())
	case errors.Is(err, common.ErrUserNotFound):
		b.out.SendMessage(ctx, chatID, "❌ Не знаю такого пользователя: пусть напишет что-нибудь в чат")
	default:
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка поиска пользователя")
		b.out.SendMessage(ctx, chatID, "❌ Ошибка поиска пользователя")
	}
}

func (b *Bot) remember(ctx context.Context, u *telego.User) {
	if u.IsBot {
		return
	}
	if err := b.members.Remember(ctx, u.ID, u.Username, u.FirstName, u.LastName); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Warn("Не удалось сохранить участника")
	}
}
