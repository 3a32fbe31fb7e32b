package models

// Vendor - бизнес в каталоге. Ровно один под-профиль (Shop/Doctor/Barber),
// выбранный по VendorType, создается вместе с вендором.
type Vendor struct {
	BaseModel
	SoftDelete
	UserID             string             `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	VendorType         VendorType         `gorm:"size:20;not null;index" json:"vendor_type"`
	BusinessName       string             `gorm:"size:255;not null" json:"business_name"`
	Description        string             `gorm:"type:text" json:"description,omitempty"`
	Phone              string             `gorm:"size:20" json:"phone,omitempty"`
	Email              string             `gorm:"size:255" json:"email,omitempty"`
	Website            string             `gorm:"size:255" json:"website,omitempty"`
	Address            string             `gorm:"size:500" json:"address,omitempty"`
	City               string             `gorm:"size:100;index" json:"city,omitempty"`
	State              string             `gorm:"size:100" json:"state,omitempty"`
	IsVerified         bool               `gorm:"not null" json:"is_verified"`
	IsPublic           bool               `gorm:"not null" json:"is_public"`
	IsActive           bool               `gorm:"not null" json:"is_active"`
	VerificationStatus VerificationStatus `gorm:"size:20;not null;default:pending;index" json:"verification_status"`
	Status             VendorStatus       `gorm:"size:20;not null;default:active" json:"status"`
	Latitude           *float64           `json:"latitude,omitempty"`
	Longitude          *float64           `json:"longitude,omitempty"`

	// Relations
	User         *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Shop         *Shop               `gorm:"foreignKey:VendorID" json:"shop,omitempty"`
	Doctor       *Doctor             `gorm:"foreignKey:VendorID" json:"doctor,omitempty"`
	Barber       *Barber             `gorm:"foreignKey:VendorID" json:"barber,omitempty"`
	OpeningTimes []VendorOpeningTime `gorm:"foreignKey:VendorID" json:"opening_times,omitempty"`
	Tags         []Tag               `gorm:"many2many:vendor_tags;" json:"tags,omitempty"`
}

func (Vendor) TableName() string { return "vendors" }

func (Vendor) AuditModule() string     { return "vendors" }
func (Vendor) AuditExcludes() []string { return nil }

func (Vendor) MediaOwnerType() string { return "vendor" }

// IsListed - виден ли вендор в публичном каталоге
func (v *Vendor) IsListed() bool {
	return v.VerificationStatus == VerificationApproved && v.IsActive && v.IsPublic && v.DeletedAt == nil
}

// FullAddress - адрес одной строкой: "address, city, state"
func (v *Vendor) FullAddress() string {
	out := ""
	for _, part := range []string{v.Address, v.City, v.State} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

type Shop struct {
	BaseModel
	SoftDelete
	VendorID            string  `gorm:"size:36;uniqueIndex;not null" json:"vendor_id"`
	ShopName            string  `gorm:"size:255;not null" json:"shop_name"`
	ShopCategoryID      *string `gorm:"size:36;index" json:"shop_category_id,omitempty"`
	Description         string  `gorm:"type:text" json:"description,omitempty"`
	Address             string  `gorm:"size:500" json:"address,omitempty"`
	PriceDisplayEnabled bool    `gorm:"not null" json:"price_display_enabled"`

	Category *ShopCategory `gorm:"foreignKey:ShopCategoryID" json:"category,omitempty"`
	Products []ShopProduct `gorm:"foreignKey:ShopID" json:"products,omitempty"`
}

func (Shop) TableName() string { return "shops" }

func (Shop) AuditModule() string     { return "shops" }
func (Shop) AuditExcludes() []string { return nil }

// ShopCategory - общий справочник видов магазинов, ведет администратор
type ShopCategory struct {
	BaseModel
	SoftDelete
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:120;not null;index" json:"slug"`
	Icon     string `gorm:"size:100" json:"icon,omitempty"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (ShopCategory) TableName() string { return "shop_categories" }

// ShopProductCategory - раздел витрины конкретного магазина.
// slug уникален в пределах магазина.
type ShopProductCategory struct {
	BaseModel
	SoftDelete
	ShopID    string `gorm:"size:36;not null;index" json:"shop_id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Slug      string `gorm:"size:120;not null;index" json:"slug"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}

func (ShopProductCategory) TableName() string { return "shop_product_categories" }

func (ShopProductCategory) AuditModule() string     { return "product_categories" }
func (ShopProductCategory) AuditExcludes() []string { return nil }

type Doctor struct {
	BaseModel
	SoftDelete
	VendorID        string `gorm:"size:36;uniqueIndex;not null" json:"vendor_id"`
	ClinicName      string `gorm:"size:255;not null" json:"clinic_name"`
	Specialization  string `gorm:"size:255;not null;default:General" json:"specialization"`
	Qualification   string `gorm:"size:255;not null;default:N/A" json:"qualification"`
	ClinicAddress   string `gorm:"size:500" json:"clinic_address,omitempty"`
	ExperienceYears int    `gorm:"default:0" json:"experience_years"`
}

func (Doctor) TableName() string { return "doctors" }

type Barber struct {
	BaseModel
	SoftDelete
	VendorID string `gorm:"size:36;uniqueIndex;not null" json:"vendor_id"`
	ShopName string `gorm:"size:255;not null" json:"shop_name"`
	Services string `gorm:"type:text" json:"services,omitempty"`
	Address  string `gorm:"size:500" json:"address,omitempty"`
}

func (Barber) TableName() string { return "barbers" }

type VendorOpeningTime struct {
	BaseModel
	VendorID  string    `gorm:"size:36;not null;index" json:"vendor_id"`
	DayOfWeek DayOfWeek `gorm:"size:3;not null" json:"day_of_week"`
	OpenTime  *string   `gorm:"size:5" json:"open_time,omitempty"`  // HH:MM
	CloseTime *string   `gorm:"size:5" json:"close_time,omitempty"` // HH:MM
	IsClosed  bool      `gorm:"not null" json:"is_closed"`
}

func (VendorOpeningTime) TableName() string { return "vendor_opening_times" }

type ShopProduct struct {
	BaseModel
	SoftDelete
	ShopID       string   `gorm:"size:36;not null;index" json:"shop_id"`
	CategoryID   *string  `gorm:"size:36;index" json:"category_id,omitempty"`
	Name         string   `gorm:"size:255;not null" json:"name"`
	Description  string   `gorm:"type:text" json:"description,omitempty"`
	Price        float64  `gorm:"not null;default:0;index" json:"price"`
	ComparePrice *float64 `json:"compare_price,omitempty"`
	IsActive     bool     `gorm:"not null" json:"is_active"`

	Shop     *Shop                `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Category *ShopProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (ShopProduct) TableName() string { return "shop_products" }

func (ShopProduct) AuditModule() string     { return "products" }
func (ShopProduct) AuditExcludes() []string { return nil }

func (ShopProduct) MediaOwnerType() string { return "shop_product" }
