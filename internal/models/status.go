package models

import "strings"

// StatusDef - полное определение одного статуса посещаемости.
// Единственное место, где статусы определяются: переводы, AI-алиасы
// и порядок отображения выводятся из этого списка.
type StatusDef struct {
	Key          string
	Label        string
	Aliases      []string
	DisplayOrder int
	Category     string
}

const (
	StatusVacation       = "vacation"
	StatusVacationAM     = "vacation_am"
	StatusVacationPM     = "vacation_pm"
	StatusVacationHourly = "vacation_hourly"
	StatusLateDelay      = "late_delay"
	StatusLate           = "late"
	StatusRemote         = "remote"
	StatusOut            = "out"
	StatusShift          = "shift"
	StatusEarlyLeave     = "early_leave"
	StatusOther          = "other"
)

// Statuses - закрытый набор статусов в порядке отображения.
// Новый статус добавляется одной строкой здесь.
var Statuses = []StatusDef{
	// Отпуска
	{StatusVacation, "全休", []string{"vacation", "休暇", "休み", "欠勤", "有給", "お休み", "全休"}, 10, "vacation"},
	{StatusVacationAM, "AM休", []string{"vacation_am", "am休", "午前休", "午前半休", "午前"}, 11, "vacation"},
	{StatusVacationPM, "PM休", []string{"vacation_pm", "pm休", "午後休", "午後半休", "午後"}, 12, "vacation"},
	{StatusVacationHourly, "時間休", []string{"vacation_hourly", "時間休"}, 13, "vacation"},
	// Опоздания
	{StatusLateDelay, "電車遅延", []string{"late_delay", "電車遅延", "遅延"}, 20, "late"},
	{StatusLate, "遅刻", []string{"late", "遅刻", "遅れ"}, 21, "late"},
	// Работа вне офиса
	{StatusRemote, "在宅", []string{"remote", "在宅", "リモート", "テレワーク", "在宅勤務"}, 30, "work"},
	{StatusOut, "外出", []string{"out", "外出", "直行", "直帰"}, 31, "work"},
	{StatusShift, "シフト勤務", []string{"shift", "シフト", "交代勤務", "シフト勤務"}, 32, "work"},
	// Прочее
	{StatusEarlyLeave, "早退", []string{"early_leave", "早退"}, 40, "other"},
	{StatusOther, "その他", []string{"other", "未分類", "その他"}, 99, "other"},
}

// NormalizeStatus приводит токен статуса от оракула к каноническому ключу.
// Сначала точное совпадение с ключом, затем совпадение с алиасами
// в порядке отображения; нераспознанные токены дают "other".
func NormalizeStatus(token string) string {
	val := strings.ToLower(strings.TrimSpace(token))
	if val == "" {
		return StatusOther
	}

	for _, s := range Statuses {
		if val == s.Key {
			return s.Key
		}
	}

	for _, s := range Statuses {
		for _, alias := range s.Aliases {
			if val == strings.ToLower(alias) || strings.Contains(val, strings.ToLower(alias)) {
				return s.Key
			}
		}
	}

	return StatusOther
}

// IsValidStatus проверяет, входит ли ключ в закрытый набор
func IsValidStatus(key string) bool {
	for _, s := range Statuses {
		if key == s.Key {
			return true
		}
	}
	return false
}

// StatusLabel возвращает японскую метку статуса для отображения
func StatusLabel(key string) string {
	for _, s := range Statuses {
		if key == s.Key {
			return s.Label
		}
	}
	return key
}
