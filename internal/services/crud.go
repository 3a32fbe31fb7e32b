package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

// CrudService - общий CRUD поверх Repository[T].
// Каждая мутация идет в транзакции; если вызывающий уже открыл транзакцию,
// сервис работает в ней. События жизненного цикла публикуются только
// для сущностей, реализующих audit.Auditable.
type CrudService[T any] struct {
	repo   repositories.Repository[T]
	bus    events.Bus
	domain string
}

func NewCrudService[T any](repo repositories.Repository[T], bus events.Bus, domain string) *CrudService[T] {
	return &CrudService[T]{repo: repo, bus: bus, domain: domain}
}

func (s *CrudService[T]) Repository() repositories.Repository[T] {
	return s.repo
}

func (s *CrudService[T]) Schema() *query.Schema {
	return s.repo.Schema()
}

// Get - запись по id. Удаленные записи видны только с IncludeDeleted.
func (s *CrudService[T]) Get(db *gorm.DB, id string, opts repositories.FindOptions) (*T, error) {
	entity, err := s.repo.Find(db, id, opts)
	if err != nil {
		return nil, s.handleError(err)
	}
	return entity, nil
}

func (s *CrudService[T]) List(db *gorm.DB, spec query.Spec, preloads ...string) (*query.Page[T], error) {
	page, err := s.repo.Paginate(db, spec, preloads...)
	if err != nil {
		return nil, s.handleError(err)
	}
	return page, nil
}

func (s *CrudService[T]) All(db *gorm.DB, spec query.Spec, preloads ...string) ([]T, error) {
	items, err := s.repo.All(db, spec, preloads...)
	if err != nil {
		return nil, s.handleError(err)
	}
	return items, nil
}

func (s *CrudService[T]) Create(db *gorm.DB, rc audit.RequestContext, entity *T) error {
	return withTx(db, func(tx *gorm.DB) error {
		return s.CreateTx(tx, rc, entity)
	})
}

// CreateTx - создание внутри уже открытой транзакции
func (s *CrudService[T]) CreateTx(tx *gorm.DB, rc audit.RequestContext, entity *T) error {
	if err := s.repo.Create(tx, entity); err != nil {
		return s.handleError(err)
	}
	if a, ok := any(entity).(audit.Auditable); ok {
		return s.publish(audit.Created(tx, rc, a))
	}
	return nil
}

// Update меняет поля живой записи и возвращает ее новое состояние
func (s *CrudService[T]) Update(db *gorm.DB, rc audit.RequestContext, id string, values map[string]any) (*T, error) {
	var updated *T
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		updated, err = s.UpdateTx(tx, rc, id, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CrudService[T]) UpdateTx(tx *gorm.DB, rc audit.RequestContext, id string, values map[string]any) (*T, error) {
	before, err := s.repo.Find(tx, id, repositories.FindOptions{})
	if err != nil {
		return nil, s.handleError(err)
	}

	after, err := s.repo.Update(tx, id, values)
	if err != nil {
		return nil, s.handleError(err)
	}

	if err := s.PublishUpdated(tx, rc, before, after); err != nil {
		return nil, err
	}
	return after, nil
}

// PublishUpdated - событие изменения для случаев, когда сервис
// меняет запись не через UpdateTx (связи, под-профили)
func (s *CrudService[T]) PublishUpdated(tx *gorm.DB, rc audit.RequestContext, before, after *T) error {
	b, ok := any(before).(audit.Auditable)
	if !ok {
		return nil
	}
	a, _ := any(after).(audit.Auditable)
	return s.publish(audit.Updated(tx, rc, b, a))
}

// Delete - мягкое удаление с причиной (или физическое, если схема без мягкого)
func (s *CrudService[T]) Delete(db *gorm.DB, rc audit.RequestContext, id, reason string) error {
	return s.delete(db, rc, id, repositories.DeleteOptions{ActorID: rc.ActorID, Reason: reason})
}

// ForceDelete удаляет запись физически
func (s *CrudService[T]) ForceDelete(db *gorm.DB, rc audit.RequestContext, id string) error {
	return s.delete(db, rc, id, repositories.DeleteOptions{ActorID: rc.ActorID, Force: true})
}

func (s *CrudService[T]) delete(db *gorm.DB, rc audit.RequestContext, id string, opts repositories.DeleteOptions) error {
	return withTx(db, func(tx *gorm.DB) error {
		_, err := s.DeleteTx(tx, rc, id, opts)
		return err
	})
}

// DeleteTx возвращает состояние записи до удаления
func (s *CrudService[T]) DeleteTx(tx *gorm.DB, rc audit.RequestContext, id string, opts repositories.DeleteOptions) (*T, error) {
	before, err := s.repo.Find(tx, id, repositories.FindOptions{IncludeDeleted: opts.Force})
	if err != nil {
		return nil, s.handleError(err)
	}
	if err := s.repo.Delete(tx, id, opts); err != nil {
		return nil, s.handleError(err)
	}
	if a, ok := any(before).(audit.Auditable); ok {
		if err := s.publish(audit.Deleted(tx, rc, a)); err != nil {
			return nil, err
		}
	}
	return before, nil
}

// Restore снимает мягкое удаление; остальные колонки не меняются
func (s *CrudService[T]) Restore(db *gorm.DB, rc audit.RequestContext, id string) (*T, error) {
	var restored *T
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		restored, err = s.RestoreTx(tx, rc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

func (s *CrudService[T]) RestoreTx(tx *gorm.DB, rc audit.RequestContext, id string) (*T, error) {
	restored, err := s.repo.Restore(tx, id)
	if err != nil {
		return nil, s.handleError(err)
	}
	if a, ok := any(restored).(audit.Auditable); ok {
		if err := s.publish(audit.Restored(tx, rc, a)); err != nil {
			return nil, err
		}
	}
	return restored, nil
}

func (s *CrudService[T]) publish(evt events.Event) error {
	if s.bus == nil {
		return nil
	}
	if err := s.bus.Publish(evt); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.InternalError(fmt.Errorf("publish %s: %w", evt.EventType(), err))
	}
	return nil
}

func (s *CrudService[T]) handleError(err error) error {
	return handleRepoError(s.domain, err)
}

// handleRepoError переводит ошибки репозитория в AppError домена
func handleRepoError(domain string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if isNotFound(err) {
		return notFound(domain, err)
	}
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperrors.ErrAlreadyExists(err)
	}
	return apperrors.DatabaseError(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrVendorNotFound) ||
		errors.Is(err, repositories.ErrProfileNotFound) ||
		errors.Is(err, repositories.ErrTagNotFound) ||
		errors.Is(err, repositories.ErrUserNotFound) ||
		errors.Is(err, repositories.ErrAdminNotFound) ||
		errors.Is(err, repositories.ErrSettingNotFound) ||
		errors.Is(err, repositories.ErrMediaNotFound) ||
		errors.Is(err, repositories.ErrCategoryNotFound)
}

func notFound(domain string, err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeNotFound, domain, domain+" not found", http.StatusNotFound)
}

// ============================================
// Транзакции
// ============================================

// inTransaction - открыта ли на db транзакция
func inTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// withTx выполняет fn в транзакции: в уже открытой или в новой
func withTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if inTransaction(db) {
		return fn(db)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}
