package audit

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// поля, которые никогда не попадают в снимки
var alwaysExcluded = []string{"created_at", "updated_at", "deleted_at"}

var schemaCache sync.Map

// Snapshot - значения колонок сущности без исключенных полей,
// приведенные к JSON-представлению (так их удобно сравнивать и хранить).
func Snapshot(db *gorm.DB, entity Auditable) (map[string]any, error) {
	s, err := schema.Parse(entity, &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(alwaysExcluded))
	for _, name := range alwaysExcluded {
		excluded[name] = true
	}
	for _, name := range entity.AuditExcludes() {
		excluded[name] = true
	}

	rv := reflect.Indirect(reflect.ValueOf(entity))
	raw := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		if field.DBName == "" || excluded[field.DBName] {
			continue
		}
		value, _ := field.ValueOf(context.Background(), rv)
		raw[field.DBName] = value
	}

	return normalize(raw)
}

func normalize(raw map[string]any) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(raw))
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Diff возвращает только изменившиеся поля: старые и новые значения
func Diff(before, after map[string]any) (oldValues, newValues map[string]any) {
	oldValues = map[string]any{}
	newValues = map[string]any{}

	for key, value := range after {
		prev, ok := before[key]
		if ok && reflect.DeepEqual(prev, value) {
			continue
		}
		oldValues[key] = prev
		newValues[key] = value
	}
	for key, prev := range before {
		if _, ok := after[key]; !ok {
			oldValues[key] = prev
			newValues[key] = nil
		}
	}
	return oldValues, newValues
}

// EntityType - имя типа сущности для журнала (Vendor, ContactBook ...)
func EntityType(entity Auditable) string {
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
