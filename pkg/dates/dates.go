package dates

import (
	"fmt"
	"time"
)

// ISO - формат календарной даты, используемый всеми записями
const ISO = "2006-01-02"

// Month - формат фильтра по месяцу (история, отчеты)
const Month = "2006-01"

var japaneseWeekdays = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatISO возвращает дату в формате YYYY-MM-DD
func FormatISO(t time.Time) string {
	return t.Format(ISO)
}

// ParseISO разбирает дату формата YYYY-MM-DD
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth разбирает фильтр месяца формата YYYY-MM
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(Month, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse month %q: %w", s, err)
	}
	return t, nil
}

// JapaneseWeekday возвращает однобуквенный японский день недели
func JapaneseWeekday(t time.Time) string {
	return japaneseWeekdays[int(t.Weekday())]
}

// ReportTitle форматирует дату для заголовка отчета: "01/21(水)".
// Неразборчивая дата возвращается как есть.
func ReportTitle(isoDate string) string {
	t, err := ParseISO(isoDate)
	if err != nil {
		return isoDate
	}
	return fmt.Sprintf("%s(%s)", t.Format("01/02"), JapaneseWeekday(t))
}
