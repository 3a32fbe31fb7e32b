package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog - неизменяемая запись журнала. Только вставка.
type AuditLog struct {
	ID           string         `gorm:"size:36;primaryKey" json:"id"`
	RequestID    string         `gorm:"size:36;index" json:"request_id"`
	ActorType    ActorType      `gorm:"size:10;not null" json:"actor_type"`
	ActorID      *string        `gorm:"size:36;index" json:"actor_id,omitempty"`
	Module       string         `gorm:"size:50;not null;index" json:"module"`
	EntityType   string         `gorm:"size:100;index:idx_audit_entity" json:"entity_type,omitempty"`
	EntityID     *string        `gorm:"size:36;index:idx_audit_entity" json:"entity_id,omitempty"`
	Action       AuditAction    `gorm:"size:20;not null;index" json:"action"`
	Status       AuditStatus    `gorm:"size:10;not null;default:success" json:"status"`
	OldValues    datatypes.JSON `json:"old_values,omitempty"`
	NewValues    datatypes.JSON `json:"new_values,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
