// Package common — pluralize.go содержит форматирование чисел для сообщений бота.
package common

import "fmt"

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	rest := n / 1000
	last := n % 1000

	return fmt.Sprintf("%s %03d", FormatNumber(rest), last)
}
