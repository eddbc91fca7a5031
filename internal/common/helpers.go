// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с часовыми поясами.
package common

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// pluralForm выбирает форму слова по правилам русского языка.
//
// Правила:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralForm(n int64, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizePoints возвращает правильную форму слова «очко» для числа n.
//
// Примеры:
//
//	PluralizePoints(1)  → "очко"
//	PluralizePoints(3)  → "очка"
//	PluralizePoints(11) → "очков"
//	PluralizePoints(-21) → "очко"
func PluralizePoints(n int64) string {
	return pluralForm(n, "очко", "очка", "очков")
}

// FormatKarma форматирует карму в читабельную строку.
// Пример: FormatKarma(1500) → "1 500 очков"
func FormatKarma(karma int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(karma), PluralizePoints(karma))
}

// LoadLocation загружает часовой пояс по имени.
// Если в образе нет tzdata, откатываемся на UTC+3 (Москва).
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("timezone", name).Warn("Не удалось загрузить часовой пояс, используем UTC+3")
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}
