// internal/service/pipeline.go
package service

import (
	"context"
	"strings"
	"time"

	"attendance-bot/internal/extract"
	"attendance-bot/internal/models"

	"github.com/sirupsen/logrus"
)

// MessageExtractor - адаптер извлечения, подменяемый в тестах
type MessageExtractor interface {
	Extract(ctx context.Context, msg models.InboundMessage, normalizedText string, ref time.Time) ([]models.AttendanceCandidate, error)
}

// Дежурные сообщения, которые заведомо не являются отчетом о
// посещаемости: отсекаются до вызова оракула
var boringMessages = []string{
	"承知しました",
	"了解です",
	"ありがとうございます",
	"お疲れ様です",
	"おはようございます",
	"よろしくお願いします",
}

// MessagePipeline превращает входящее сообщение чата в 0..N эффектов
// хранения: префильтр -> дедупликация -> короткое замыкание отмены ->
// нормализация -> извлечение -> сверка -> запись. Кандидаты одного
// сообщения обрабатываются последовательно и независимо.
type MessagePipeline struct {
	extractor  MessageExtractor
	attendance *AttendanceService
	workspaces *WorkspaceService
	reconciler *ReconciliationEngine
	dedup      *DedupGuard
	now        func() time.Time
	logger     *logrus.Logger
}

func NewMessagePipeline(
	extractor MessageExtractor,
	attendance *AttendanceService,
	workspaces *WorkspaceService,
	reconciler *ReconciliationEngine,
	dedup *DedupGuard,
) *MessagePipeline {
	return &MessagePipeline{
		extractor:  extractor,
		attendance: attendance,
		workspaces: workspaces,
		reconciler: reconciler,
		dedup:      dedup,
		now:        time.Now,
		logger:     logrus.New(),
	}
}

// SetClock подменяет источник времени (для тестов границы 09:00)
func (p *MessagePipeline) SetClock(now func() time.Time) {
	p.now = now
}

// ProcessMessage обрабатывает одно входящее сообщение. Возвращает
// список примененных эффектов; при транзиентной ошибке извлечения или
// ошибке хранилища уже примененные эффекты возвращаются вместе с
// ошибкой - частичное применение многодневного сообщения никогда не
// замалчивается.
func (p *MessagePipeline) ProcessMessage(ctx context.Context, msg models.InboundMessage) ([]models.AttendanceEffect, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" || isBoringMessage(text) {
		return nil, nil
	}

	if p.dedup.Seen(msg.DedupKey()) {
		p.logger.Infof("Duplicate delivery suppressed: %s", msg.DedupKey())
		return nil, nil
	}

	loc := p.workspaces.Location(msg.TenantID)
	sentAt := msg.SentAt
	if sentAt.IsZero() {
		sentAt = p.now()
	}
	localSentAt := sentAt.In(loc)

	// однозначная отмена распознается без вызова оракула
	if p.reconciler.CheckCancellation(msg, localSentAt) {
		return p.applyCancellation(msg, localSentAt)
	}

	normalized := extract.NormalizeText(text)
	candidates, err := p.extractor.Extract(ctx, msg, normalized, p.now().In(loc))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// не сообщение о посещаемости - чистый выход без эффектов
		return nil, nil
	}

	effects := []models.AttendanceEffect{}
	for _, candidate := range candidates {
		status := models.NormalizeStatus(candidate.RawStatus)

		switch p.reconciler.Resolve(candidate, normalized) {
		case ResolveUpsert:
			record := &models.AttendanceRecord{
				TenantID:   msg.TenantID,
				UserID:     msg.UserID,
				Username:   msg.Username,
				Date:       candidate.Date,
				Status:     status,
				Note:       candidate.Note,
				ChannelID:  msg.ChannelID,
				MessageRef: msg.MessageID,
			}
			if err := p.attendance.Save(record); err != nil {
				return effects, err
			}
			effects = append(effects, models.AttendanceEffect{
				TenantID:   msg.TenantID,
				UserID:     msg.UserID,
				Date:       candidate.Date,
				Status:     status,
				Note:       candidate.Note,
				Kind:       models.EffectUpserted,
				ChannelID:  msg.ChannelID,
				MessageRef: msg.MessageID,
			})

		case ResolveDelete:
			deleted, err := p.attendance.Delete(msg.TenantID, msg.UserID, candidate.Date)
			if err != nil {
				return effects, err
			}
			if !deleted {
				continue
			}
			effects = append(effects, models.AttendanceEffect{
				TenantID:   msg.TenantID,
				UserID:     msg.UserID,
				Date:       candidate.Date,
				Kind:       models.EffectDeleted,
				ChannelID:  msg.ChannelID,
				MessageRef: msg.MessageID,
			})
		}
	}

	return effects, nil
}

// applyCancellation удаляет отчет за день отправки сообщения.
// Для ответа в треде дата родительского сообщения недоступна без
// обращения к платформе, поэтому используется день отправки.
func (p *MessagePipeline) applyCancellation(msg models.InboundMessage, localSentAt time.Time) ([]models.AttendanceEffect, error) {
	date := localSentAt.Format("2006-01-02")

	deleted, err := p.attendance.Delete(msg.TenantID, msg.UserID, date)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, nil
	}

	p.logger.Infof("Cancellation short-circuit: tenant=%s user=%s date=%s", msg.TenantID, msg.UserID, date)
	return []models.AttendanceEffect{{
		TenantID:   msg.TenantID,
		UserID:     msg.UserID,
		Date:       date,
		Kind:       models.EffectDeleted,
		ChannelID:  msg.ChannelID,
		MessageRef: msg.MessageID,
	}}, nil
}

func isBoringMessage(text string) bool {
	for _, boring := range boringMessages {
		if text == boring {
			return true
		}
	}
	return false
}
