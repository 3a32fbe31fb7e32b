package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fahadjdy/business-point/pkg/apperrors"
)

// Зарезервированные ключи никогда не становятся фильтрами
const (
	KeySearch    = "search"
	KeySortBy    = "sort_by"
	KeySortOrder = "sort_order"
	KeyPage      = "page"
	KeyPerPage   = "per_page"
)

var suffixOps = []struct {
	suffix string
	op     Operator
}{
	{"_min", OpMin},
	{"_max", OpMax},
	{"_date", OpDate},
}

const dateLayout = "2006-01-02"

// Values превращает url.Values в плоскую карту (первое значение каждого ключа)
func Values(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for key, vals := range v {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}

// Parse - адаптер границы: переводит плоское соглашение ключей
// (field, field_min, field_max, field_date, relation.field) в явные условия.
// Принимаются только поля, объявленные в схеме. Пустые значения пропускаются.
func Parse(params map[string]string, schema *Schema) (Spec, error) {
	var spec Spec
	problems := map[string]string{}

	for key, raw := range params {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		switch key {
		case KeySearch:
			spec.Search = value
			continue
		case KeySortBy:
			spec.SortBy = value
			continue
		case KeySortOrder:
			spec.SortOrder = SortOrder(strings.ToLower(value))
			if spec.SortOrder != Asc && spec.SortOrder != Desc {
				problems[key] = "must be asc or desc"
			}
			continue
		case KeyPage:
			spec.Page = parsePositive(value, 1)
			continue
		case KeyPerPage:
			spec.PerPage = parsePositive(value, DefaultPerPage)
			if spec.PerPage > MaxPerPage {
				spec.PerPage = MaxPerPage
			}
			continue
		}

		cond, err := parseCondition(key, value, schema)
		if err != nil {
			problems[key] = err.Error()
			continue
		}
		spec.Conditions = append(spec.Conditions, cond)
	}

	if len(problems) > 0 {
		return Spec{}, apperrors.ValidationError(problems)
	}

	sortConditions(spec.Conditions)
	return spec, nil
}

func parseCondition(key, value string, schema *Schema) (Condition, error) {
	if rel, field, ok := strings.Cut(key, "."); ok {
		_, kind, found := schema.relationField(rel, field)
		if !found {
			return Condition{}, fmt.Errorf("unknown filter")
		}
		v, err := convert(kind, OpEq, value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Relation: rel, Field: field, Op: OpEq, Value: v}, nil
	}

	if kind, ok := schema.field(key); ok {
		v, err := convert(kind, OpEq, value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: key, Op: OpEq, Value: v}, nil
	}

	for _, so := range suffixOps {
		name, found := strings.CutSuffix(key, so.suffix)
		if !found {
			continue
		}
		kind, ok := schema.field(name)
		if !ok {
			break
		}
		if !kind.allows(so.op) {
			return Condition{}, fmt.Errorf("operator %s is not supported for this field", so.op)
		}
		v, err := convert(kind, so.op, value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: name, Op: so.op, Value: v}, nil
	}

	return Condition{}, fmt.Errorf("unknown filter")
}

func convert(kind FieldKind, op Operator, value string) (any, error) {
	switch kind {
	case Number:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return f, nil
	case Bool:
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("must be a boolean")
	case Time:
		if op == OpDate {
			if _, err := time.Parse(dateLayout, value); err != nil {
				return nil, fmt.Errorf("must be a date (YYYY-MM-DD)")
			}
			return value, nil
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t, nil
		}
		t, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("must be a date or RFC3339 timestamp")
		}
		if op == OpMax {
			// включительно до конца дня
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return value, nil
}

func parsePositive(value string, def int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// sortConditions фиксирует порядок условий, карта параметров его не гарантирует
func sortConditions(conds []Condition) {
	sort.SliceStable(conds, func(i, j int) bool {
		return conditionLess(conds[i], conds[j])
	})
}

func conditionLess(a, b Condition) bool {
	if a.Relation != b.Relation {
		return a.Relation < b.Relation
	}
	if a.Field != b.Field {
		return a.Field < b.Field
	}
	return a.Op < b.Op
}
