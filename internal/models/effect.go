package models

type EffectKind string

const (
	EffectUpserted EffectKind = "upserted"
	EffectDeleted  EffectKind = "deleted"
)

// AttendanceEffect - результат обработки одного кандидата,
// по одному на каждое исходящее уведомление
type AttendanceEffect struct {
	TenantID   string     `json:"tenant_id"`
	UserID     string     `json:"user_id"`
	Date       string     `json:"date"`
	Status     string     `json:"status"` // пусто для удалений
	Note       string     `json:"note"`
	Kind       EffectKind `json:"kind"`
	ChannelID  string     `json:"channel_id"`
	MessageRef string     `json:"message_ref"`
}
