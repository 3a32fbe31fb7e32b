package models

type Tag struct {
	BaseModel
	SoftDelete
	Name     string      `gorm:"size:100;not null" json:"name"`
	Slug     string      `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Category TagCategory `gorm:"size:20;not null;index" json:"category"`
	IsActive bool        `gorm:"not null" json:"is_active"`
}

func (Tag) TableName() string { return "tags" }
