package query

import "sort"

// FieldKind определяет, какие операторы допустимы для поля и как
// парсить строковое значение из запроса.
type FieldKind int

const (
	String FieldKind = iota
	Number
	Bool
	Time
)

func (k FieldKind) allows(op Operator) bool {
	switch op {
	case OpEq, OpIn:
		return true
	case OpMin, OpMax:
		return k == Number || k == Time
	case OpDate:
		return k == Time
	}
	return false
}

type RelationKind int

const (
	BelongsTo RelationKind = iota
	HasOne
	HasMany
	ManyToMany
)

// Relation описывает связь для фильтров вида relation.field
type Relation struct {
	Kind  RelationKind
	Table string
	// BelongsTo: колонка родителя (shop_id). HasOne/HasMany: колонка связанной таблицы (vendor_id).
	ForeignKey string
	// ManyToMany: таблица связи и ее колонки
	JoinTable      string
	JoinForeignKey string // ссылается на родителя
	JoinReferences string // ссылается на связанную запись
	SoftDelete     bool
	Fields         map[string]FieldKind
}

// ToOne - сортировка по полю связи корректна только для to-one связей
func (r Relation) ToOne() bool {
	return r.Kind == BelongsTo || r.Kind == HasOne
}

// Schema - белый список того, что можно фильтровать, искать и сортировать
type Schema struct {
	Table      string
	Fields     map[string]FieldKind
	Searchable []string // поля или relation.field
	Sortable   []string // поля или relation.field; пусто - любые из Fields
	Relations  map[string]Relation
	SoftDelete bool

	DefaultSort  string
	DefaultOrder SortOrder
}

func (s *Schema) defaultSort() string {
	if s.DefaultSort != "" {
		return s.DefaultSort
	}
	return "created_at"
}

func (s *Schema) defaultOrder() SortOrder {
	if s.DefaultOrder != "" {
		return s.DefaultOrder
	}
	return Desc
}

func (s *Schema) field(name string) (FieldKind, bool) {
	switch name {
	case "id":
		return String, true
	case "created_at", "updated_at":
		return Time, true
	}
	kind, ok := s.Fields[name]
	return kind, ok
}

func (s *Schema) relationField(rel, name string) (Relation, FieldKind, bool) {
	r, ok := s.Relations[rel]
	if !ok {
		return Relation{}, 0, false
	}
	kind, ok := r.Fields[name]
	return r, kind, ok
}

func (s *Schema) sortable(name string) bool {
	if len(s.Sortable) == 0 {
		_, ok := s.field(name)
		return ok
	}
	if name == s.defaultSort() || name == "id" {
		return true
	}
	for _, f := range s.Sortable {
		if f == name {
			return true
		}
	}
	return false
}

// searchable возвращает поля поиска: объявленные, иначе все строковые поля
func (s *Schema) searchable() []string {
	if len(s.Searchable) > 0 {
		return s.Searchable
	}
	var out []string
	for name, kind := range s.Fields {
		if kind == String {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

