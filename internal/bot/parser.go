package bot

import (
	"strings"
	"unicode/utf16"

	"github.com/mymmrac/telego"

	"serotonyl.ru/karma-bot/internal/features/votes"
)

// CommandParser парсит команды с префиксами !, . и /.
// В группах Telegram дописывает к /команде имя бота (/karma@KarmaBot),
// команды для других ботов не считаются нашими.
type CommandParser struct {
	validPrefixes []string
	botUsername   string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser(botUsername string) *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
		botUsername:   strings.ToLower(strings.TrimPrefix(botUsername, "@")),
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if name, bot, found := strings.Cut(command, "@"); found {
		if bot != p.botUsername {
			return "", nil, false
		}
		command = name
	}
	if command == "" {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}

// entityText вырезает текст сущности. Offset и Length в Telegram
// считаются в UTF-16, а не в байтах.
func entityText(text string, e telego.MessageEntity) string {
	units := utf16.Encode([]rune(text))
	if e.Offset < 0 || e.Length <= 0 || e.Offset+e.Length > len(units) {
		return ""
	}
	return string(utf16.Decode(units[e.Offset : e.Offset+e.Length]))
}

// commandEmoji достаёт эмодзи для !setupvote/!setdownvote:
// кастомный эмодзи из сущности сообщения или первый аргумент.
func commandEmoji(msg *telego.Message, args []string) votes.Emoji {
	for _, e := range msg.Entities {
		if e.Type == "custom_emoji" && e.CustomEmojiID != "" {
			return votes.Emoji{Custom: true, ID: e.CustomEmojiID, Name: entityText(msg.Text, e)}
		}
	}
	if len(args) > 0 {
		return votes.Emoji{Name: args[0]}
	}
	return votes.Emoji{}
}

// mentionedUser возвращает пользователя из text_mention (упоминание без @username).
func mentionedUser(msg *telego.Message) *telego.User {
	for _, e := range msg.Entities {
		if e.Type == "text_mention" && e.User != nil {
			return e.User
		}
	}
	return nil
}

// mentionedUsername возвращает первый @username из аргументов.
func mentionedUsername(args []string) string {
	for _, a := range args {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			return strings.TrimPrefix(a, "@")
		}
	}
	return ""
}
