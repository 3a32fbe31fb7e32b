package models

type User struct {
	BaseModel
	SoftDelete
	Name         string   `gorm:"size:255;not null" json:"name"`
	Email        string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        *string  `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	BloodGroup   string   `gorm:"size:5" json:"blood_group,omitempty"`
	Gender       string   `gorm:"size:10" json:"gender,omitempty"`
	PasswordHash string   `gorm:"column:password;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null;default:user" json:"role"`
	IsActive     bool     `gorm:"not null" json:"is_active"`

	// Relations
	Skills []Tag   `gorm:"many2many:user_skills;" json:"skills,omitempty"`
	Admin  *Admin  `gorm:"foreignKey:UserID" json:"admin,omitempty"`
	Vendor *Vendor `gorm:"foreignKey:UserID" json:"vendor,omitempty"`
}

func (User) TableName() string { return "users" }

func (User) AuditModule() string     { return "users" }
func (User) AuditExcludes() []string { return []string{"password"} }

func (User) MediaOwnerType() string { return "user" }

type Admin struct {
	BaseModel
	SoftDelete
	UserID       string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:20" json:"phone,omitempty"`
	IsSuperAdmin bool   `gorm:"not null" json:"is_super_admin"`
	IsActive     bool   `gorm:"not null" json:"is_active"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Admin) TableName() string { return "admins" }

func (Admin) AuditModule() string     { return "admins" }
func (Admin) AuditExcludes() []string { return nil }

func (Admin) MediaOwnerType() string { return "admin" }

// UserSetting - персональные настройки пользователя (key/value)
type UserSetting struct {
	BaseModel
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_user_setting_key" json:"user_id"`
	Key    string `gorm:"size:100;not null;uniqueIndex:idx_user_setting_key" json:"key"`
	Value  string `gorm:"type:text" json:"value"`
}

func (UserSetting) TableName() string { return "user_settings" }

func (UserSetting) AuditModule() string     { return "user_settings" }
func (UserSetting) AuditExcludes() []string { return nil }
