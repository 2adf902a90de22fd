package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"attendance-bot/internal/models"

	"github.com/sirupsen/logrus"
)

const isoDateLen = len("2006-01-02")

// oracleResult - ожидаемая форма JSON-ответа оракула
type oracleResult struct {
	IsAttendance bool          `json:"is_attendance"`
	Attendances  []oracleEvent `json:"attendances"`
}

type oracleEvent struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Note   string `json:"note"`
	Action string `json:"action"`
}

// Extractor строит запрос к оракулу и разбирает ответ в кандидатов.
// Невалидный или пустой ответ - нормальный исход ("не сообщение о
// посещаемости"), а не ошибка.
type Extractor struct {
	oracle Oracle
	logger *logrus.Logger
}

func NewExtractor(oracle Oracle) *Extractor {
	return &Extractor{
		oracle: oracle,
		logger: logrus.New(),
	}
}

// Extract возвращает 0..N кандидатов из нормализованного текста.
// (nil, nil) означает "не сообщение о посещаемости"; ошибка означает
// транзиентный сбой оракула, сообщение можно обработать повторно.
func (e *Extractor) Extract(ctx context.Context, msg models.InboundMessage, normalizedText string, ref time.Time) ([]models.AttendanceCandidate, error) {
	resp, err := e.oracle.Complete(ctx, Request{
		ReferenceDate: ref,
		Text:          normalizedText,
	})
	if err != nil {
		return nil, err
	}

	// лог стоимости вызова, только для наблюдаемости
	e.logger.WithFields(logrus.Fields{
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"model":             resp.Model,
		"tenant_id":         msg.TenantID,
		"user_id":           msg.UserID,
	}).Info("Extraction oracle call completed")

	var result oracleResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		e.logNotAttendance(msg, normalizedText, "invalid oracle JSON")
		return nil, nil
	}

	// attendances важнее флага is_attendance: модель иногда
	// выставляет false, но события все равно возвращает
	if len(result.Attendances) == 0 {
		e.logNotAttendance(msg, normalizedText, "no attendance events")
		return nil, nil
	}

	candidates := make([]models.AttendanceCandidate, 0, len(result.Attendances))
	for _, event := range result.Attendances {
		candidates = append(candidates, models.AttendanceCandidate{
			Date:      cleanDate(event.Date, ref),
			RawStatus: event.Status,
			Note:      cleanNote(event.Note),
			Action:    cleanAction(event.Action),
		})
	}

	return candidates, nil
}

// logNotAttendance пишет запись классификации для последующего анализа
func (e *Extractor) logNotAttendance(msg models.InboundMessage, text, reason string) {
	e.logger.WithFields(logrus.Fields{
		"tenant_id":  msg.TenantID,
		"channel_id": msg.ChannelID,
		"user_id":    msg.UserID,
		"text":       truncate(text, 40),
		"reason":     reason,
	}).Info("Message classified as non-attendance")
}

// cleanDate подставляет опорную дату, если оракул дату не вернул
// или вернул неполную
func cleanDate(date string, ref time.Time) string {
	if len(date) < isoDateLen {
		return ref.Format("2006-01-02")
	}
	return date[:isoDateLen]
}

// cleanNote убирает строковые "None"/"null", которые модель
// возвращает вместо пустого примечания
func cleanNote(note string) string {
	trimmed := strings.TrimSpace(note)
	switch strings.ToLower(trimmed) {
	case "none", "null":
		return ""
	}
	return trimmed
}

func cleanAction(action string) string {
	if action == models.ActionDelete {
		return models.ActionDelete
	}
	return models.ActionSave
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
