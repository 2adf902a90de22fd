// internal/service/reconcile.go
package service

import (
	"strings"
	"time"

	"attendance-bot/internal/extract"
	"attendance-bot/internal/models"
)

// Разрешенный эффект хранения для одного кандидата
const (
	ResolveUpsert = "upsert"
	ResolveDelete = "delete"
)

// Фразы о прибытии: короткий высоконадежный сигнал отмены ранее
// поданного отчета, дешевле и надежнее распознавать напрямую,
// чем через оракула
var defaultArrivalPhrases = []string{
	"間に合いました",
	"間に合った",
	"出社しました",
	"出社できました",
	"出勤しました",
	"到着しました",
	"着きました",
}

// После этого часа (тенант-локально) фраза о прибытии в отдельном
// сообщении считается обычным текстом, а не отзывом опоздания
const cancelCutoffHour = 9

// ReconciliationEngine решает фактический эффект хранения для каждого
// кандидата, разрешая конфликты между сырым action оракула и
// доменными правилами переопределения
type ReconciliationEngine struct {
	arrivalPhrases []string
	cutoffHour     int
}

func NewReconciliationEngine() *ReconciliationEngine {
	return &ReconciliationEngine{
		arrivalPhrases: defaultArrivalPhrases,
		cutoffHour:     cancelCutoffHour,
	}
}

// Resolve применяет правила в порядке приоритета, первое совпадение
// побеждает:
//  1. delete + валидный (не fallback) статус + маркер зачеркивания -
//     это исправление, а не удаление: сохранить новый статус
//  2. delete - удалить запись
//  3. save - сохранить запись
func (e *ReconciliationEngine) Resolve(candidate models.AttendanceCandidate, normalizedText string) string {
	status := models.NormalizeStatus(candidate.RawStatus)

	if candidate.Action == models.ActionDelete &&
		status != models.StatusOther &&
		extract.HasStrikeThrough(normalizedText) {
		return ResolveUpsert
	}

	if candidate.Action == models.ActionDelete {
		return ResolveDelete
	}

	return ResolveUpsert
}

// CheckCancellation проверяет переопределения уровня сообщения до
// вызова оракула. При срабатывании извлечение не выполняется вовсе:
//   - ответ в треде с фразой о прибытии отменяет отчет всегда;
//   - отдельное сообщение с такой фразой отменяет отчет только строго
//     до 09:00 тенант-локального времени.
//
// localSentAt - время отправки, уже приведенное к таймзоне тенанта.
func (e *ReconciliationEngine) CheckCancellation(msg models.InboundMessage, localSentAt time.Time) bool {
	if !e.containsArrivalPhrase(msg.Text) {
		return false
	}

	if msg.IsThreadReply {
		return true
	}

	return localSentAt.Hour() < e.cutoffHour
}

func (e *ReconciliationEngine) containsArrivalPhrase(text string) bool {
	for _, phrase := range e.arrivalPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
