package query

import "gorm.io/gorm"

// Page - постраничный результат. Даже "все записи" отдаются одной страницей.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

func NewPage[T any](items []T, total int64, page, perPage int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Page[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
	}
}

// MapPage переводит элементы страницы в другое представление
func MapPage[T, V any](p *Page[T], fn func(T) V) *Page[V] {
	out := make([]V, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return &Page[V]{Items: out, Total: p.Total, Page: p.Page, PerPage: p.PerPage, LastPage: p.LastPage}
}

// Paginate выполняет запрос: фильтры, подсчет, сортировка, страница
func Paginate[T any](db *gorm.DB, spec Spec, schema *Schema, preloads ...string) (*Page[T], error) {
	spec = spec.Normalize(schema)

	q, err := Apply(db.Model(new(T)), spec, schema)
	if err != nil {
		return nil, err
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	sorted, err := ApplySort(q, spec, schema)
	if err != nil {
		return nil, err
	}
	for _, p := range preloads {
		sorted = sorted.Preload(p)
	}

	items := make([]T, 0)
	if total > 0 {
		offset := (spec.Page - 1) * spec.PerPage
		if err := sorted.Offset(offset).Limit(spec.PerPage).Find(&items).Error; err != nil {
			return nil, err
		}
	}

	return NewPage(items, total, spec.Page, spec.PerPage), nil
}

// All - то же самое без пагинации (экспорт)
func All[T any](db *gorm.DB, spec Spec, schema *Schema, preloads ...string) ([]T, error) {
	spec = spec.Normalize(schema)

	q, err := Apply(db.Model(new(T)), spec, schema)
	if err != nil {
		return nil, err
	}
	q, err = ApplySort(q, spec, schema)
	if err != nil {
		return nil, err
	}
	for _, p := range preloads {
		q = q.Preload(p)
	}

	items := make([]T, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
