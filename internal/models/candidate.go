package models

const (
	ActionSave   = "save"
	ActionDelete = "delete"
)

// AttendanceCandidate - одно извлеченное событие посещаемости.
// Создается адаптером извлечения на каждую дату в сообщении и
// сразу потребляется движком сверки, никогда не сохраняется как есть.
type AttendanceCandidate struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	RawStatus string `json:"raw_status"` // буквальный токен оракула
	Note      string `json:"note"`
	Action    string `json:"action"` // save | delete
}
