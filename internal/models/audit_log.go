package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUndo   AuditAction = "undo"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Account scope
	UserID   uint   `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalized

	// Which entity? ("origin", "product", "operator", "roast", "cost_settings")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Entity state before/after the change (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`

	IsUndone bool       `gorm:"default:false" json:"is_undone"`
	UndoneBy *uint      `json:"undone_by"`
	UndoneAt *time.Time `json:"undone_at"`
}
