// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки платформы (поиск сообщений, пользователей, чатов)
var (
	// ErrMessageNotFound — сообщения нет в индексе (старше суток или бот его не видел)
	ErrMessageNotFound = errors.New("сообщение не найдено")
	// ErrUserNotFound — пользователь не найден ни в кэше, ни в Telegram
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrChatNotFound — чат недоступен боту
	ErrChatNotFound = errors.New("чат не найден")
)

// Ошибки кармы
var (
	// ErrInvalidDelta — карма меняется только на +1 или -1
	ErrInvalidDelta = errors.New("карма меняется только на ±1")
	// ErrTargetRequired — команде нужен пользователь (ответ, упоминание или @username)
	ErrTargetRequired = errors.New("укажите пользователя: ответом на сообщение или через @username")
)

// Ошибки настройки реакций
var (
	// ErrVoteConfigNotFound — для чата не настроены реакции голосования
	ErrVoteConfigNotFound = errors.New("реакции для голосования не настроены")
	// ErrEmojiRequired — в команде не передан эмодзи
	ErrEmojiRequired = errors.New("укажите эмодзи после команды")
	// ErrUnknownVoteKind — неизвестный тип голоса (не upvote/downvote)
	ErrUnknownVoteKind = errors.New("неизвестный тип голоса")
)

// Ошибки прав
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
)
