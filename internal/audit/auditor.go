package audit

import (
	"encoding/json"
	"fmt"

	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActorResolver отличает администраторов от обычных пользователей
type ActorResolver interface {
	IsAdmin(db *gorm.DB, userID string) (bool, error)
}

// Entry - явная запись журнала (view, search, login, bulk_update ...)
type Entry struct {
	Module     string
	Action     models.AuditAction
	EntityType string
	EntityID   string
	Old        map[string]any
	New        map[string]any
	Status     models.AuditStatus
	Error      string
}

// Auditor пишет журнал. На события жизненного цикла подписывается
// через Register, остальные действия пишутся явным вызовом Record.
type Auditor struct {
	repo   repositories.AuditLogRepository
	actors ActorResolver
}

func NewAuditor(repo repositories.AuditLogRepository, actors ActorResolver) *Auditor {
	return &Auditor{repo: repo, actors: actors}
}

// Register подписывает аудитора на четыре события жизненного цикла
func (a *Auditor) Register(bus events.Bus) {
	for _, t := range []events.EventType{EventCreated, EventUpdated, EventDeleted, EventRestored} {
		bus.Subscribe(t, a.Handle)
	}
}

// Handle - чистая функция (событие, контекст) -> запись журнала в транзакции события
func (a *Auditor) Handle(e events.Event) error {
	evt, ok := e.(LifecycleEvent)
	if !ok {
		return nil
	}
	subject := evt.subject()
	if subject == nil {
		return fmt.Errorf("audit: %s event without entity", evt.Type)
	}

	entry := Entry{
		Module:     subject.AuditModule(),
		EntityType: EntityType(subject),
		EntityID:   subject.GetID(),
		Status:     models.AuditStatusSuccess,
	}

	switch evt.Type {
	case EventCreated, EventRestored:
		snap, err := Snapshot(evt.Tx, evt.After)
		if err != nil {
			return err
		}
		entry.Action = models.AuditActionCreate
		if evt.Type == EventRestored {
			entry.Action = models.AuditActionRestore
		}
		entry.New = snap

	case EventUpdated:
		before, err := Snapshot(evt.Tx, evt.Before)
		if err != nil {
			return err
		}
		after, err := Snapshot(evt.Tx, evt.After)
		if err != nil {
			return err
		}
		oldValues, newValues := Diff(before, after)
		if len(newValues) == 0 {
			// ничего существенного не изменилось
			return nil
		}
		entry.Action = models.AuditActionUpdate
		entry.Old = oldValues
		entry.New = newValues

	case EventDeleted:
		snap, err := Snapshot(evt.Tx, evt.Before)
		if err != nil {
			return err
		}
		entry.Action = models.AuditActionDelete
		entry.Old = snap

	default:
		return nil
	}

	return a.Record(evt.Tx, evt.Request, entry)
}

// Record пишет одну запись. Ошибка записи возвращается: в транзакции
// она откатывает и само изменение.
func (a *Auditor) Record(db *gorm.DB, rc RequestContext, entry Entry) error {
	actorType, err := a.actorType(db, rc)
	if err != nil {
		return err
	}

	status := entry.Status
	if status == "" {
		status = models.AuditStatusSuccess
	}

	log := &models.AuditLog{
		RequestID:    rc.RequestID,
		ActorType:    actorType,
		ActorID:      optional(rc.ActorID),
		Module:       entry.Module,
		EntityType:   entry.EntityType,
		EntityID:     optional(entry.EntityID),
		Action:       entry.Action,
		Status:       status,
		ErrorMessage: entry.Error,
	}
	if log.OldValues, err = toJSON(entry.Old); err != nil {
		return err
	}
	if log.NewValues, err = toJSON(entry.New); err != nil {
		return err
	}
	if log.Metadata, err = toJSON(rc.Metadata()); err != nil {
		return err
	}

	if err := a.repo.Create(db, log); err != nil {
		logger.Component("audit").Error("failed to write audit log",
			"module", entry.Module, "action", entry.Action, "error", err.Error())
		return err
	}
	return nil
}

func (a *Auditor) actorType(db *gorm.DB, rc RequestContext) (models.ActorType, error) {
	if rc.IsSystem() {
		return models.ActorTypeSystem, nil
	}
	if a.actors == nil {
		return models.ActorTypeUser, nil
	}
	isAdmin, err := a.actors.IsAdmin(db, rc.ActorID)
	if err != nil {
		return "", err
	}
	if isAdmin {
		return models.ActorTypeAdmin, nil
	}
	return models.ActorTypeUser, nil
}

func toJSON(values map[string]any) (datatypes.JSON, error) {
	if values == nil {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
