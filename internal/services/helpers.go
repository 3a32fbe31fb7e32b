package services

import (
	"context"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/validator"

	"gorm.io/gorm"
)

// setIf кладет значение в карту обновления, только если поле передано
func setIf[T any](values map[string]any, column string, v *T) {
	if v != nil {
		values[column] = *v
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// emptyToNil - пустой идентификатор означает "не указан"
func emptyToNil(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// validate - общая точка валидации DTO для всех сервисов
func validate(v *validator.Validator, req any) error {
	if v == nil {
		return nil
	}
	return v.Check(req)
}

// presentPrimary - основной файл владельца в виде ответа (или nil)
func presentPrimary(ctx context.Context, db *gorm.DB, mm *media.Manager, owner media.Owner) (*media.View, error) {
	item, err := mm.PrimaryForOwner(db, owner)
	if err != nil || item == nil {
		return nil, err
	}
	return mm.Present(ctx, item)
}

func presentAll(ctx context.Context, db *gorm.DB, mm *media.Manager, owner media.Owner) ([]media.View, error) {
	items, err := mm.ForOwner(db, owner)
	if err != nil {
		return nil, err
	}
	return mm.PresentAll(ctx, items)
}

// replacePrimary загружает новый основной файл и удаляет прежние
func replacePrimary(ctx context.Context, db *gorm.DB, mm *media.Manager, rc audit.RequestContext, owner media.Owner, file *media.FileInput, collection string) error {
	if file == nil {
		return nil
	}
	old, err := mm.ForOwner(db, owner)
	if err != nil {
		return err
	}

	uploaded, err := mm.Upload(ctx, db, rc, *file, owner, media.Options{
		Collection: collection,
		IsPrimary:  true,
		WithResize: true,
	})
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(old))
	for _, m := range old {
		if m.ID != uploaded.ID {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return mm.DeleteByIDs(ctx, db, owner, ids)
}
