package repositories

import "github.com/fahadjdy/business-point/internal/query"

// =====================================================================
// Схемы фильтрации: что можно фильтровать, искать и сортировать
// =====================================================================

var tagRelationFields = map[string]query.FieldKind{
	"id":       query.String,
	"name":     query.String,
	"slug":     query.String,
	"category": query.String,
}

var VendorSchema = &query.Schema{
	Table: "vendors",
	Fields: map[string]query.FieldKind{
		"user_id":             query.String,
		"vendor_type":         query.String,
		"business_name":       query.String,
		"phone":               query.String,
		"email":               query.String,
		"city":                query.String,
		"state":               query.String,
		"is_verified":         query.Bool,
		"is_public":           query.Bool,
		"is_active":           query.Bool,
		"verification_status": query.String,
		"status":              query.String,
		"latitude":            query.Number,
		"longitude":           query.Number,
	},
	Searchable: []string{"business_name", "description", "address", "city", "phone", "email", "tags.name"},
	Sortable:   []string{"business_name", "city", "created_at", "updated_at", "verification_status", "user.name", "shop.shop_name", "doctor.specialization"},
	Relations: map[string]query.Relation{
		"tags": {
			Kind: query.ManyToMany, Table: "tags",
			JoinTable: "vendor_tags", JoinForeignKey: "vendor_id", JoinReferences: "tag_id",
			SoftDelete: true, Fields: tagRelationFields,
		},
		"user": {
			Kind: query.BelongsTo, Table: "users", ForeignKey: "user_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"name": query.String, "email": query.String},
		},
		"shop": {
			Kind: query.HasOne, Table: "shops", ForeignKey: "vendor_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"shop_name": query.String, "shop_category_id": query.String},
		},
		"doctor": {
			Kind: query.HasOne, Table: "doctors", ForeignKey: "vendor_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"specialization": query.String, "clinic_name": query.String, "experience_years": query.Number},
		},
		"barber": {
			Kind: query.HasOne, Table: "barbers", ForeignKey: "vendor_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"shop_name": query.String},
		},
		"opening_times": {
			Kind: query.HasMany, Table: "vendor_opening_times", ForeignKey: "vendor_id",
			Fields: map[string]query.FieldKind{"day_of_week": query.String, "is_closed": query.Bool},
		},
	},
	SoftDelete: true,
}

var ShopSchema = &query.Schema{
	Table: "shops",
	Fields: map[string]query.FieldKind{
		"vendor_id":        query.String,
		"shop_name":        query.String,
		"shop_category_id": query.String,
	},
	Searchable: []string{"shop_name", "description"},
	SoftDelete: true,
}

var ShopCategorySchema = &query.Schema{
	Table: "shop_categories",
	Fields: map[string]query.FieldKind{
		"name":      query.String,
		"slug":      query.String,
		"is_active": query.Bool,
	},
	Searchable:   []string{"name", "slug"},
	Sortable:     []string{"name", "created_at"},
	SoftDelete:   true,
	DefaultSort:  "name",
	DefaultOrder: query.Asc,
}

var ShopProductCategorySchema = &query.Schema{
	Table: "shop_product_categories",
	Fields: map[string]query.FieldKind{
		"shop_id":    query.String,
		"name":       query.String,
		"slug":       query.String,
		"sort_order": query.Number,
		"is_active":  query.Bool,
	},
	Searchable:   []string{"name"},
	Sortable:     []string{"name", "sort_order", "created_at"},
	SoftDelete:   true,
	DefaultSort:  "sort_order",
	DefaultOrder: query.Asc,
}

var ShopProductSchema = &query.Schema{
	Table: "shop_products",
	Fields: map[string]query.FieldKind{
		"shop_id":       query.String,
		"category_id":   query.String,
		"name":          query.String,
		"price":         query.Number,
		"compare_price": query.Number,
		"is_active":     query.Bool,
	},
	Searchable: []string{"name", "description"},
	Sortable:   []string{"name", "price", "created_at", "shop.shop_name"},
	Relations: map[string]query.Relation{
		"shop": {
			Kind: query.BelongsTo, Table: "shops", ForeignKey: "shop_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"shop_name": query.String, "vendor_id": query.String},
		},
		"category": {
			Kind: query.BelongsTo, Table: "shop_product_categories", ForeignKey: "category_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"name": query.String, "slug": query.String},
		},
	},
	SoftDelete: true,
}

var TagSchema = &query.Schema{
	Table: "tags",
	Fields: map[string]query.FieldKind{
		"name":      query.String,
		"slug":      query.String,
		"category":  query.String,
		"is_active": query.Bool,
	},
	Searchable:   []string{"name", "slug"},
	Sortable:     []string{"name", "category", "created_at"},
	SoftDelete:   true,
	DefaultSort:  "name",
	DefaultOrder: query.Asc,
}

var ContactBookSchema = &query.Schema{
	Table: "contact_books",
	Fields: map[string]query.FieldKind{
		"name":        query.String,
		"designation": query.String,
		"department":  query.String,
		"phone":       query.String,
		"email":       query.String,
		"type":        query.String,
		"is_active":   query.Bool,
		"sort_order":  query.Number,
	},
	Searchable: []string{"name", "designation", "department", "phone", "email", "address", "description", "tags.name"},
	Sortable:   []string{"name", "designation", "department", "type", "sort_order", "created_at"},
	Relations: map[string]query.Relation{
		"tags": {
			Kind: query.ManyToMany, Table: "tags",
			JoinTable: "contact_book_tag", JoinForeignKey: "contact_book_id", JoinReferences: "tag_id",
			SoftDelete: true, Fields: tagRelationFields,
		},
		"contact_numbers": {
			Kind: query.HasMany, Table: "contact_numbers", ForeignKey: "contact_book_id",
			Fields: map[string]query.FieldKind{"number": query.String, "type": query.String},
		},
	},
	SoftDelete:   true,
	DefaultSort:  "name",
	DefaultOrder: query.Asc,
}

var NotificationSchema = &query.Schema{
	Table: "notifications",
	Fields: map[string]query.FieldKind{
		"title":        query.String,
		"priority":     query.String,
		"is_active":    query.Bool,
		"is_scheduled": query.Bool,
		"scheduled_at": query.Time,
		"sort_order":   query.Number,
	},
	Searchable: []string{"title", "message"},
	Sortable:   []string{"created_at", "sort_order", "title", "scheduled_at", "priority"},
	SoftDelete: true,
}

var BannerSchema = &query.Schema{
	Table: "banners",
	Fields: map[string]query.FieldKind{
		"title":     query.String,
		"is_active": query.Bool,
	},
	Searchable: []string{"title", "link"},
	SoftDelete: true,
}

var EmergencyContactSchema = &query.Schema{
	Table: "emergency_contacts",
	Fields: map[string]query.FieldKind{
		"name":           query.String,
		"contact_number": query.String,
		"badge":          query.String,
		"is_active":      query.Bool,
		"sort_order":     query.Number,
	},
	Searchable:   []string{"name", "contact_number", "description"},
	SoftDelete:   true,
	DefaultSort:  "sort_order",
	DefaultOrder: query.Asc,
}

var UserSchema = &query.Schema{
	Table: "users",
	Fields: map[string]query.FieldKind{
		"name":        query.String,
		"email":       query.String,
		"phone":       query.String,
		"blood_group": query.String,
		"gender":      query.String,
		"role":        query.String,
		"is_active":   query.Bool,
	},
	Searchable: []string{"name", "email", "phone"},
	Relations: map[string]query.Relation{
		"skills": {
			Kind: query.ManyToMany, Table: "tags",
			JoinTable: "user_skills", JoinForeignKey: "user_id", JoinReferences: "tag_id",
			SoftDelete: true, Fields: tagRelationFields,
		},
		"admin": {
			Kind: query.HasOne, Table: "admins", ForeignKey: "user_id", SoftDelete: true,
			Fields: map[string]query.FieldKind{"is_super_admin": query.Bool},
		},
	},
	SoftDelete: true,
}

var AdminSchema = &query.Schema{
	Table: "admins",
	Fields: map[string]query.FieldKind{
		"user_id":        query.String,
		"name":           query.String,
		"email":          query.String,
		"is_active":      query.Bool,
		"is_super_admin": query.Bool,
	},
	Searchable: []string{"name", "email", "phone"},
	SoftDelete: true,
}

var UserSettingSchema = &query.Schema{
	Table: "user_settings",
	Fields: map[string]query.FieldKind{
		"user_id": query.String,
		"key":     query.String,
	},
	DefaultSort:  "key",
	DefaultOrder: query.Asc,
}

var SettingSchema = &query.Schema{
	Table: "settings",
	Fields: map[string]query.FieldKind{
		"key":  query.String,
		"type": query.String,
	},
	Searchable:   []string{"key", "description"},
	DefaultSort:  "key",
	DefaultOrder: query.Asc,
}

var MediaSchema = &query.Schema{
	Table: "media",
	Fields: map[string]query.FieldKind{
		"model_type": query.String,
		"model_id":   query.String,
		"mime_type":  query.String,
		"is_primary": query.Bool,
		"file_size":  query.Number,
	},
	Searchable:   []string{"file_name"},
	DefaultSort:  "created_at",
	DefaultOrder: query.Asc,
}

var AuditLogSchema = &query.Schema{
	Table: "audit_logs",
	Fields: map[string]query.FieldKind{
		"request_id":  query.String,
		"actor_type":  query.String,
		"actor_id":    query.String,
		"module":      query.String,
		"entity_type": query.String,
		"entity_id":   query.String,
		"action":      query.String,
		"status":      query.String,
	},
	Searchable: []string{"module", "entity_type", "action", "error_message"},
}
