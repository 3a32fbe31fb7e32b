package query

// Operator - явный оператор условия фильтра
type Operator string

const (
	OpEq   Operator = "eq"   // col = ?
	OpIn   Operator = "in"   // col IN (?)
	OpMin  Operator = "min"  // col >= ?
	OpMax  Operator = "max"  // col <= ?
	OpDate Operator = "date" // DATE(col) = ?
)

// SortOrder - направление сортировки
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	// PerPageAll - соглашение "отдать все": ответ остается постраничным, страница одна
	PerPageAll = 1_000_000
)

// Condition - одно условие. Если Relation не пустой, условие проверяется
// на связанной сущности через EXISTS (хотя бы одна связанная запись совпадает).
type Condition struct {
	Relation string
	Field    string
	Op       Operator
	Value    any
}

// Spec - типизированный запрос к одной коллекции
type Spec struct {
	Conditions []Condition
	// Search - подстрока, ищется без учета регистра по Schema.Searchable
	Search    string
	SortBy    string
	SortOrder SortOrder
	Page      int
	PerPage   int

	IncludeDeleted bool
	OnlyDeleted    bool
}

func (s Spec) Where(field string, op Operator, value any) Spec {
	s.Conditions = append(append([]Condition(nil), s.Conditions...), Condition{Field: field, Op: op, Value: value})
	return s
}

func (s Spec) WhereHas(relation, field string, op Operator, value any) Spec {
	s.Conditions = append(append([]Condition(nil), s.Conditions...), Condition{Relation: relation, Field: field, Op: op, Value: value})
	return s
}

// Has - есть ли условие на поле (без учета оператора)
func (s Spec) Has(field string) bool {
	for _, c := range s.Conditions {
		if c.Relation == "" && c.Field == field {
			return true
		}
	}
	return false
}

// Normalize подставляет значения по умолчанию для страницы и сортировки
func (s Spec) Normalize(schema *Schema) Spec {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PerPage < 1 {
		s.PerPage = DefaultPerPage
	}
	if s.SortBy == "" {
		s.SortBy = schema.defaultSort()
		if s.SortOrder == "" {
			s.SortOrder = schema.defaultOrder()
		}
	}
	if s.SortOrder != Asc {
		s.SortOrder = Desc
	}
	return s
}
