package query

import (
	"fmt"
	"strings"

	"github.com/fahadjdy/business-point/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Apply добавляет к запросу фильтры, поиск и условие мягкого удаления.
// Сортировку и пагинацию добавляют ApplySort и Paginate.
func Apply(db *gorm.DB, spec Spec, schema *Schema) (*gorm.DB, error) {
	q := db

	if schema.SoftDelete {
		deletedAt := quote(db, schema.Table, "deleted_at")
		switch {
		case spec.OnlyDeleted:
			q = q.Where(deletedAt + " IS NOT NULL")
		case !spec.IncludeDeleted:
			q = q.Where(deletedAt + " IS NULL")
		}
	}

	for _, c := range spec.Conditions {
		var err error
		q, err = applyCondition(q, c, schema)
		if err != nil {
			return nil, err
		}
	}

	if term := strings.TrimSpace(spec.Search); term != "" {
		q = applySearch(q, term, schema)
	}

	return q, nil
}

func applyCondition(db *gorm.DB, c Condition, schema *Schema) (*gorm.DB, error) {
	if c.Relation == "" {
		kind, ok := schema.field(c.Field)
		if !ok {
			return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("unknown filter field %q", c.Field))
		}
		if !kind.allows(c.Op) {
			return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("operator %s is not supported for %q", c.Op, c.Field))
		}
		return db.Where(predicate(quote(db, schema.Table, c.Field), c.Op), c.Value), nil
	}

	rel, kind, ok := schema.relationField(c.Relation, c.Field)
	if !ok {
		return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("unknown filter field %q", c.Relation+"."+c.Field))
	}
	if !kind.allows(c.Op) {
		return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("operator %s is not supported for %q", c.Op, c.Relation+"."+c.Field))
	}
	inner := predicate(quote(db, rel.Table, c.Field), c.Op)
	return db.Where(exists(db, schema, rel, inner), c.Value), nil
}

func predicate(col string, op Operator) string {
	switch op {
	case OpIn:
		return col + " IN ?"
	case OpMin:
		return col + " >= ?"
	case OpMax:
		return col + " <= ?"
	case OpDate:
		return "DATE(" + col + ") = ?"
	default:
		return col + " = ?"
	}
}

// exists строит EXISTS-подзапрос к связанной таблице с условием inner
func exists(db *gorm.DB, schema *Schema, rel Relation, inner string) string {
	return "EXISTS (" + relatedSelect(db, schema, rel, "1", inner) + ")"
}

// relatedSelect - SELECT what FROM связанной таблицы, привязанный к текущей строке родителя
func relatedSelect(db *gorm.DB, schema *Schema, rel Relation, what, inner string) string {
	parentID := quote(db, schema.Table, "id")
	related := db.Statement.Quote(rel.Table)

	var from, link string
	switch rel.Kind {
	case BelongsTo:
		from = related
		link = quote(db, rel.Table, "id") + " = " + quote(db, schema.Table, rel.ForeignKey)
	case HasOne, HasMany:
		from = related
		link = quote(db, rel.Table, rel.ForeignKey) + " = " + parentID
	case ManyToMany:
		join := db.Statement.Quote(rel.JoinTable)
		from = join + " INNER JOIN " + related + " ON " +
			quote(db, rel.Table, "id") + " = " + quote(db, rel.JoinTable, rel.JoinReferences)
		link = quote(db, rel.JoinTable, rel.JoinForeignKey) + " = " + parentID
	}

	where := link
	if inner != "" {
		where += " AND " + inner
	}
	if rel.SoftDelete {
		where += " AND " + quote(db, rel.Table, "deleted_at") + " IS NULL"
	}
	return "SELECT " + what + " FROM " + from + " WHERE " + where
}

// applySearch - OR по всем полям поиска, без учета регистра
func applySearch(db *gorm.DB, term string, schema *Schema) *gorm.DB {
	like := "%" + strings.ToLower(term) + "%"

	var parts []string
	var args []any
	for _, name := range schema.searchable() {
		if rel, field, ok := strings.Cut(name, "."); ok {
			r, found := schema.Relations[rel]
			if !found {
				continue
			}
			inner := "LOWER(" + quote(db, r.Table, field) + ") LIKE ?"
			parts = append(parts, exists(db, schema, r, inner))
		} else {
			parts = append(parts, "LOWER("+quote(db, schema.Table, name)+") LIKE ?")
		}
		args = append(args, like)
	}

	if len(parts) == 0 {
		return db
	}
	return db.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// ApplySort добавляет ORDER BY. Сортировка по relation.field разрешена только
// для to-one связей: для to-many "первая" связанная строка не определена.
func ApplySort(db *gorm.DB, spec Spec, schema *Schema) (*gorm.DB, error) {
	spec = spec.Normalize(schema)
	dir := "DESC"
	if spec.SortOrder == Asc {
		dir = "ASC"
	}

	q := db
	if rel, field, ok := strings.Cut(spec.SortBy, "."); ok {
		r, _, found := schema.relationField(rel, field)
		if !found {
			return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("unknown sort field %q", spec.SortBy))
		}
		if !r.ToOne() {
			return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("sorting by to-many relation %q is not supported", rel))
		}
		expr := "(" + relatedSelect(db, schema, r, quote(db, r.Table, field), "") + " LIMIT 1)"
		q = q.Order(expr + " " + dir)
	} else {
		if !schema.sortable(spec.SortBy) {
			return nil, apperrors.ErrUnsupportedQuery(fmt.Sprintf("unknown sort field %q", spec.SortBy))
		}
		q = q.Order(quote(db, schema.Table, spec.SortBy) + " " + dir)
	}

	// стабильный порядок при равных значениях
	if spec.SortBy != "id" {
		q = q.Order(quote(db, schema.Table, "id") + " ASC")
	}
	return q, nil
}

func quote(db *gorm.DB, table, column string) string {
	return db.Statement.Quote(clause.Column{Table: table, Name: column})
}
