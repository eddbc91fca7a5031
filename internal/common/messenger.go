package common

import "context"

// Messenger отправляет текстовое сообщение в чат.
// Ошибки отправки логируются внутри и наружу не пробрасываются.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string)
}
