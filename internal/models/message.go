package models

import "time"

// InboundMessage - входящее сообщение чата после декодирования платформы,
// до какой-либо обработки посещаемости
type InboundMessage struct {
	TenantID      string    `json:"tenant_id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	ChannelID     string    `json:"channel_id"`
	MessageID     string    `json:"message_id"`
	Text          string    `json:"text"`
	SentAt        time.Time `json:"sent_at"`
	IsThreadReply bool      `json:"is_thread_reply"`
	ThreadParent  string    `json:"thread_parent"`
}

// DedupKey возвращает ключ для подавления повторной доставки
func (m InboundMessage) DedupKey() string {
	return m.ChannelID + ":" + m.MessageID
}
