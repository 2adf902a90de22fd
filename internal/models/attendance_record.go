package models

import "time"

type AttendanceRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TenantID   string    `gorm:"not null;uniqueIndex:idx_attendance_key" json:"tenant_id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_attendance_key" json:"user_id"`
	Date       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_key" json:"date"` // YYYY-MM-DD
	Status     string    `gorm:"type:varchar(20);not null" json:"status"`
	Note       string    `json:"note"`
	Username   string    `json:"username"`
	ChannelID  string    `json:"channel_id"`
	MessageRef string    `json:"message_ref"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName задает имя таблицы в БД
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
