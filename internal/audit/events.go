package audit

import (
	"github.com/fahadjdy/business-point/internal/events"

	"gorm.io/gorm"
)

// Auditable - сущность, изменения которой пишутся в журнал
type Auditable interface {
	GetID() string
	AuditModule() string
	// AuditExcludes - поля, которые не попадают в снимки (кроме временных меток)
	AuditExcludes() []string
}

const (
	EventCreated  events.EventType = "entity.created"
	EventUpdated  events.EventType = "entity.updated"
	EventDeleted  events.EventType = "entity.deleted"
	EventRestored events.EventType = "entity.restored"
)

// LifecycleEvent публикуется сервисом после изменения сущности,
// внутри той же транзакции (Tx), в которой произошло изменение.
type LifecycleEvent struct {
	Type    events.EventType
	Tx      *gorm.DB
	Request RequestContext
	// Before - состояние до изменения (update, delete)
	Before Auditable
	// After - состояние после изменения (create, update, restore)
	After Auditable
}

func (e LifecycleEvent) EventType() events.EventType {
	return e.Type
}

func (e LifecycleEvent) subject() Auditable {
	if e.After != nil {
		return e.After
	}
	return e.Before
}

func Created(tx *gorm.DB, rc RequestContext, entity Auditable) LifecycleEvent {
	return LifecycleEvent{Type: EventCreated, Tx: tx, Request: rc, After: entity}
}

func Updated(tx *gorm.DB, rc RequestContext, before, after Auditable) LifecycleEvent {
	return LifecycleEvent{Type: EventUpdated, Tx: tx, Request: rc, Before: before, After: after}
}

func Deleted(tx *gorm.DB, rc RequestContext, entity Auditable) LifecycleEvent {
	return LifecycleEvent{Type: EventDeleted, Tx: tx, Request: rc, Before: entity}
}

func Restored(tx *gorm.DB, rc RequestContext, entity Auditable) LifecycleEvent {
	return LifecycleEvent{Type: EventRestored, Tx: tx, Request: rc, After: entity}
}
