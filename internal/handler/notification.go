package handler

import (
	"fmt"

	"attendance-bot/internal/models"
	"attendance-bot/pkg/dates"
)

// renderEffect строит текст исходящего уведомления для одного
// примененного эффекта
func renderEffect(effect models.AttendanceEffect) string {
	title := dates.ReportTitle(effect.Date)

	if effect.Kind == models.EffectDeleted {
		return fmt.Sprintf("ⓘ %s の勤怠連絡を取り消しました", title)
	}

	text := fmt.Sprintf("✅ 勤怠を記録しました\n📅 %s / %s", title, models.StatusLabel(effect.Status))
	if effect.Note != "" {
		text += "\n📝 " + effect.Note
	}
	return text
}
