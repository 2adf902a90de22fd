package models

import "time"

const DefaultTimezone = "Asia/Tokyo"

// Workspace - настройки одного тенанта (изолированного рабочего пространства)
type Workspace struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	TenantID     string    `gorm:"uniqueIndex;not null" json:"tenant_id"`
	Timezone     string    `gorm:"default:'Asia/Tokyo'" json:"timezone"`
	ReportChatID string    `json:"report_chat_id"`
	NLPEnabled   bool      `gorm:"default:true" json:"nlp_enabled"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName задает имя таблицы в БД
func (Workspace) TableName() string {
	return "workspaces"
}
