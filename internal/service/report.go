// internal/service/report.go
package service

import (
	"fmt"
	"strings"

	"attendance-bot/internal/models"
	"attendance-bot/pkg/dates"
)

// ReportService формирует текст дневного отчета по тенанту.
// Доставка по расписанию остается за внешним планировщиком.
type ReportService struct {
	attendance *AttendanceService
}

func NewReportService(attendance *AttendanceService) *ReportService {
	return &ReportService{attendance: attendance}
}

// DailyReport возвращает отчет за дату: записи сгруппированы по
// статусам в порядке отображения, с японскими метками
func (s *ReportService) DailyReport(tenantID, date string) (string, error) {
	records, err := s.attendance.GetByDate(tenantID, date)
	if err != nil {
		return "", fmt.Errorf("ошибка получения записей за %s: %w", date, err)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 勤怠連絡 %s\n", dates.ReportTitle(date)))

	if len(records) == 0 {
		b.WriteString("本日の勤怠連絡はありません。")
		return b.String(), nil
	}

	byStatus := make(map[string][]models.AttendanceRecord)
	for _, record := range records {
		byStatus[record.Status] = append(byStatus[record.Status], record)
	}

	for _, def := range models.Statuses {
		group, ok := byStatus[def.Key]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("\n【%s】\n", def.Label))
		for _, record := range group {
			line := "・" + displayName(record)
			if record.Note != "" {
				line += "（" + record.Note + "）"
			}
			b.WriteString(line + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func displayName(record models.AttendanceRecord) string {
	if record.Username != "" {
		return record.Username
	}
	return record.UserID
}
