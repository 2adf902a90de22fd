package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"attendance-bot/internal/config"
	"attendance-bot/internal/extract"
	"attendance-bot/internal/models"
	"attendance-bot/internal/service"
	"attendance-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const processTimeout = 45 * time.Second

type Handler struct {
	client            *telegram.Client
	pipeline          *service.MessagePipeline
	attendanceService *service.AttendanceService
	workspaceService  *service.WorkspaceService
	reportService     *service.ReportService
	config            *config.BotConfig
}

func NewHandler(
	client *telegram.Client,
	pipeline *service.MessagePipeline,
	attendanceService *service.AttendanceService,
	workspaceService *service.WorkspaceService,
	reportService *service.ReportService,
	cfg *config.BotConfig,
) *Handler {
	return &Handler{
		client:            client,
		pipeline:          pipeline,
		attendanceService: attendanceService,
		workspaceService:  workspaceService,
		reportService:     reportService,
		config:            cfg,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	if message.From == nil || message.From.IsBot {
		return
	}

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.processAttendanceMessage(message)
}

// processAttendanceMessage прогоняет обычное сообщение через конвейер
// посещаемости и отвечает карточкой на каждый примененный эффект
func (h *Handler) processAttendanceMessage(message *tgbotapi.Message) {
	if !h.config.EnableChannelNLP {
		return
	}
	// опциональное ограничение одним чатом
	if h.config.AttendanceChatID != 0 && message.Chat.ID != h.config.AttendanceChatID {
		return
	}

	msg := toInboundMessage(message)
	if !h.workspaceService.NLPEnabled(msg.TenantID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	effects, err := h.pipeline.ProcessMessage(ctx, msg)
	if err != nil {
		if errors.Is(err, extract.ErrOracleUnavailable) {
			// транзиентный сбой: запись не сделана, пользователь может
			// отправить сообщение повторно
			logrus.WithError(err).Warn("Extraction failed, message dropped")
			h.reply(message, "⚠️ 解析サービスに接続できませんでした。もう一度送信してください。")
			return
		}
		logrus.WithError(err).Error("Attendance processing failed")
		return
	}

	for _, effect := range effects {
		h.reply(message, renderEffect(effect))
	}
}

// toInboundMessage переводит сообщение Telegram в платформонезависимое
// входящее событие конвейера
func toInboundMessage(message *tgbotapi.Message) models.InboundMessage {
	chatID := strconv.FormatInt(message.Chat.ID, 10)

	msg := models.InboundMessage{
		TenantID:  chatID,
		UserID:    strconv.FormatInt(message.From.ID, 10),
		Username:  displayUsername(message.From),
		ChannelID: chatID,
		MessageID: strconv.Itoa(message.MessageID),
		Text:      message.Text,
		SentAt:    message.Time(),
	}

	if message.ReplyToMessage != nil {
		msg.IsThreadReply = true
		msg.ThreadParent = strconv.Itoa(message.ReplyToMessage.MessageID)
	}

	return msg
}

func displayUsername(from *tgbotapi.User) string {
	if from.UserName != "" {
		return from.UserName
	}
	return from.FirstName
}

func (h *Handler) reply(to *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(to.Chat.ID, text)
	msg.ReplyToMessageID = to.MessageID
	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to send reply")
	}
}

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.client.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logrus.WithError(err).Error("Failed to send message")
	}
}
