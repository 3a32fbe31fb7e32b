package models

// ContactBook - запись общественной телефонной книги
type ContactBook struct {
	BaseModel
	SoftDelete
	Name        string      `gorm:"size:255;not null;index" json:"name"`
	Designation string      `gorm:"size:255" json:"designation,omitempty"`
	Department  string      `gorm:"size:255" json:"department,omitempty"`
	Phone       string      `gorm:"size:20" json:"phone,omitempty"`
	Email       string      `gorm:"size:255" json:"email,omitempty"`
	Address     string      `gorm:"type:text" json:"address,omitempty"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	Type        ContactType `gorm:"size:20;not null;default:person;index" json:"type"`
	IsActive    bool        `gorm:"not null;index" json:"is_active"`
	SortOrder   int         `gorm:"default:0" json:"sort_order"`

	Tags           []Tag           `gorm:"many2many:contact_book_tag;" json:"tags,omitempty"`
	ContactNumbers []ContactNumber `gorm:"foreignKey:ContactBookID" json:"contact_numbers,omitempty"`
}

func (ContactBook) TableName() string { return "contact_books" }

func (ContactBook) AuditModule() string     { return "contact_book" }
func (ContactBook) AuditExcludes() []string { return nil }

func (ContactBook) MediaOwnerType() string { return "contact_book" }

type ContactNumber struct {
	BaseModel
	ContactBookID string     `gorm:"size:36;not null;index" json:"contact_book_id"`
	Number        string     `gorm:"size:20;not null" json:"number"`
	Type          NumberType `gorm:"size:20;not null;default:primary" json:"type"`
}

func (ContactNumber) TableName() string { return "contact_numbers" }
