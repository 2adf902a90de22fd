package handler

import (
	"fmt"
	"strconv"
	"strings"

	"attendance-bot/internal/models"
	"attendance-bot/pkg/dates"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.start(message)
	case "help":
		h.help(message)
	case "history":
		h.history(message)
	case "report":
		h.report(message)
	case "timezone":
		h.timezone(message)
	default:
		h.reply(message, "不明なコマンドです。/help をご覧ください。")
	}
}

// start регистрирует workspace для чата
func (h *Handler) start(message *tgbotapi.Message) {
	tenantID := strconv.FormatInt(message.Chat.ID, 10)

	workspace, err := h.workspaceService.GetOrCreate(tenantID)
	if err != nil {
		logrus.WithError(err).Error("Failed to register workspace")
		h.reply(message, "⚠️ 初期化に失敗しました。")
		return
	}

	h.reply(message, fmt.Sprintf(
		"✅ 勤怠ボットを有効にしました。\nタイムゾーン: %s\n勤怠連絡をそのまま送信してください（例:「明日は在宅です」）。",
		workspace.Timezone,
	))
}

func (h *Handler) help(message *tgbotapi.Message) {
	h.reply(message, strings.Join([]string{
		"勤怠連絡を普通の文章で送ると自動的に記録されます。",
		"打ち消し線（~...~）で以前の連絡を訂正できます。",
		"",
		"/history [YYYY-MM] - 自分の勤怠履歴",
		"/report [YYYY-MM-DD] - 日次レポート",
		"/timezone <IANA名> - タイムゾーン設定",
	}, "\n"))
}

// history показывает записи пользователя за месяц
func (h *Handler) history(message *tgbotapi.Message) {
	tenantID := strconv.FormatInt(message.Chat.ID, 10)
	userID := strconv.FormatInt(message.From.ID, 10)

	month := strings.TrimSpace(message.CommandArguments())
	if month == "" {
		month = message.Time().Format(dates.Month)
	}
	if _, err := dates.ParseMonth(month); err != nil {
		h.reply(message, "⚠️ 月の形式が正しくありません（例: 2026-01）。")
		return
	}

	records, err := h.attendanceService.GetHistory(tenantID, userID, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to load history")
		h.reply(message, "⚠️ 履歴の取得に失敗しました。")
		return
	}

	if len(records) == 0 {
		h.reply(message, fmt.Sprintf("%s の勤怠連絡はありません。", month))
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 %s の勤怠履歴\n", month))
	for _, record := range records {
		line := fmt.Sprintf("・%s %s", dates.ReportTitle(record.Date), models.StatusLabel(record.Status))
		if record.Note != "" {
			line += "（" + record.Note + "）"
		}
		b.WriteString(line + "\n")
	}
	h.reply(message, strings.TrimRight(b.String(), "\n"))
}

// report показывает дневной отчет по чату
func (h *Handler) report(message *tgbotapi.Message) {
	tenantID := strconv.FormatInt(message.Chat.ID, 10)

	date := strings.TrimSpace(message.CommandArguments())
	if date == "" {
		loc := h.workspaceService.Location(tenantID)
		date = message.Time().In(loc).Format(dates.ISO)
	}
	if _, err := dates.ParseISO(date); err != nil {
		h.reply(message, "⚠️ 日付の形式が正しくありません（例: 2026-01-21）。")
		return
	}

	text, err := h.reportService.DailyReport(tenantID, date)
	if err != nil {
		logrus.WithError(err).Error("Failed to build daily report")
		h.reply(message, "⚠️ レポートの作成に失敗しました。")
		return
	}

	h.send(message.Chat.ID, text)
}

// timezone задает таймзону тенанта
func (h *Handler) timezone(message *tgbotapi.Message) {
	tenantID := strconv.FormatInt(message.Chat.ID, 10)

	tz := strings.TrimSpace(message.CommandArguments())
	if tz == "" {
		h.reply(message, "使い方: /timezone Asia/Tokyo")
		return
	}

	if err := h.workspaceService.SetTimezone(tenantID, tz); err != nil {
		h.reply(message, "⚠️ タイムゾーンを設定できませんでした: "+tz)
		return
	}

	h.reply(message, "✅ タイムゾーンを "+tz+" に設定しました。")
}
