package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/fahadjdy/business-point/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

type FindOptions struct {
	Preload        []string
	IncludeDeleted bool
}

type DeleteOptions struct {
	ActorID string
	Reason  string
	// Force - физическое удаление даже для сущностей с мягким удалением
	Force bool
}

// Repository - обобщенный доступ к одной сущности.
// Не хранит *gorm.DB: соединение или транзакцию передает вызывающий.
type Repository[T any] interface {
	Schema() *query.Schema
	Find(db *gorm.DB, id string, opts FindOptions) (*T, error)
	Create(db *gorm.DB, entity *T) error
	Update(db *gorm.DB, id string, values map[string]any) (*T, error)
	Delete(db *gorm.DB, id string, opts DeleteOptions) error
	Restore(db *gorm.DB, id string) (*T, error)
	Paginate(db *gorm.DB, spec query.Spec, preloads ...string) (*query.Page[T], error)
	All(db *gorm.DB, spec query.Spec, preloads ...string) ([]T, error)
	Exists(db *gorm.DB, id string) (bool, error)
}

type GormRepository[T any] struct {
	schema *query.Schema
}

func NewRepository[T any](schema *query.Schema) *GormRepository[T] {
	return &GormRepository[T]{schema: schema}
}

func (r *GormRepository[T]) Schema() *query.Schema {
	return r.schema
}

func (r *GormRepository[T]) col(db *gorm.DB, name string) string {
	return db.Statement.Quote(clause.Column{Table: r.schema.Table, Name: name})
}

// live ограничивает запрос неудаленными записями
func (r *GormRepository[T]) live(db *gorm.DB) *gorm.DB {
	if !r.schema.SoftDelete {
		return db
	}
	return db.Where(r.col(db, "deleted_at") + " IS NULL")
}

func (r *GormRepository[T]) Find(db *gorm.DB, id string, opts FindOptions) (*T, error) {
	q := db.Model(new(T))
	if !opts.IncludeDeleted {
		q = r.live(q)
	}
	for _, p := range opts.Preload {
		q = q.Preload(p)
	}

	var entity T
	if err := q.Where(r.col(db, "id")+" = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *GormRepository[T]) Create(db *gorm.DB, entity *T) error {
	if err := db.Omit(clause.Associations).Create(entity).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update меняет только живую запись и возвращает ее новое состояние
func (r *GormRepository[T]) Update(db *gorm.DB, id string, values map[string]any) (*T, error) {
	if _, err := r.Find(db, id, FindOptions{}); err != nil {
		return nil, err
	}

	if len(values) > 0 {
		q := r.live(db.Model(new(T)).Where(r.col(db, "id")+" = ?", id))
		if err := q.Updates(values).Error; err != nil {
			return nil, translate(err)
		}
	}

	return r.Find(db, id, FindOptions{})
}

// Delete - мягкое удаление, если схема его поддерживает: только маркеры
// удаления, остальные колонки не меняются. Иначе (или с Force) - физическое.
func (r *GormRepository[T]) Delete(db *gorm.DB, id string, opts DeleteOptions) error {
	if !r.schema.SoftDelete || opts.Force {
		res := db.Where(r.col(db, "id")+" = ?", id).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	}

	values := map[string]any{
		"deleted_at":    time.Now(),
		"deleted_by":    nullable(opts.ActorID),
		"delete_reason": nullable(opts.Reason),
	}

	res := r.live(db.Model(new(T)).Where(r.col(db, "id")+" = ?", id)).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Restore снимает маркеры удаления. Работает только с удаленными записями,
// запись возвращается в том виде, в каком была до удаления.
func (r *GormRepository[T]) Restore(db *gorm.DB, id string) (*T, error) {
	if !r.schema.SoftDelete {
		return nil, ErrRecordNotFound
	}

	values := map[string]any{
		"deleted_at":    nil,
		"deleted_by":    nil,
		"delete_reason": nil,
	}

	res := db.Model(new(T)).
		Where(r.col(db, "id")+" = ?", id).
		Where(r.col(db, "deleted_at") + " IS NOT NULL").
		Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return r.Find(db, id, FindOptions{})
}

func (r *GormRepository[T]) Paginate(db *gorm.DB, spec query.Spec, preloads ...string) (*query.Page[T], error) {
	return query.Paginate[T](db, spec, r.schema, preloads...)
}

func (r *GormRepository[T]) All(db *gorm.DB, spec query.Spec, preloads ...string) ([]T, error) {
	return query.All[T](db, spec, r.schema, preloads...)
}

func (r *GormRepository[T]) Exists(db *gorm.DB, id string) (bool, error) {
	var count int64
	err := r.live(db.Model(new(T))).Where(r.col(db, "id")+" = ?", id).Count(&count).Error
	return count > 0, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// translate приводит ошибки уникальности разных драйверов к ErrDuplicate
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry") {
		return ErrDuplicate
	}
	return err
}

// IsDuplicate - нарушено ли ограничение уникальности
func IsDuplicate(err error) bool {
	return errors.Is(translate(err), ErrDuplicate)
}
