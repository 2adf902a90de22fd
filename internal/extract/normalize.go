package extract

import (
	"regexp"
	"strings"
)

// strikeMarker - явный текстовый маркер, в который переписывается
// зачеркнутый фрагмент. Оракул видит маркер вместо разметки платформы,
// движок сверки ищет его при проверке правила исправления.
const strikeMarker = "(strike-through:"

var strikeRe = regexp.MustCompile(`~(.*?)~`)

// NormalizeText переписывает каждый зачеркнутый фрагмент ~...~ в явный
// маркер "(strike-through: ...)", остальной текст не меняется.
// Чистая тотальная функция: пустой вход дает пустой выход.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return strikeRe.ReplaceAllString(text, "(strike-through: $1)")
}

// HasStrikeThrough проверяет наличие маркера зачеркивания
// в уже нормализованном тексте
func HasStrikeThrough(normalizedText string) bool {
	return strings.Contains(normalizedText, strikeMarker)
}
