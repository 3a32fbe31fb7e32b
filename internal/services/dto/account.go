package dto

import (
	"strings"
	"time"

	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
)

// ======================
// Auth
// ======================

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Normalize приводит email к нижнему регистру и обрезает пробелы; вызывается до валидации
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// LoginRequest - Login это email или телефон
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// ======================
// Users & admins
// ======================

type UpdateUserProfileRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	BloodGroup *string  `json:"blood_group,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Gender     *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	SkillIDs   []string `json:"skill_ids,omitempty" validate:"omitempty,dive,required"`
}

func (r *UpdateUserProfileRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Phone)
}

type CreateAdminRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

func (r *CreateAdminRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// UpdateAdminProfileRequest - пустой Password не меняет пароль
type UpdateAdminProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

func (r *UpdateAdminProfileRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Phone)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type ProfileResponse struct {
	*models.User
	Photo *media.View `json:"photo,omitempty"`
}

type AdminResponse struct {
	*models.Admin
	Photo *media.View `json:"photo,omitempty"`
}

// ======================
// Settings
// ======================

// UpdateSettingsRequest - пары key/value; ключи создаются, если их нет.
// Тип новой настройки выводится из JSON-значения.
type UpdateSettingsRequest struct {
	Settings map[string]any `json:"settings" validate:"required,min=1,dive,keys,required,max=100,endkeys"`
}

type SetSettingRequest struct {
	Key         string             `json:"key" validate:"required,max=100"`
	Value       string             `json:"value"`
	Type        models.SettingType `json:"type" validate:"omitempty,is-setting-type"`
	Description string             `json:"description" validate:"omitempty,max=500"`
}

type MaintenanceStatus struct {
	Enabled           bool   `json:"maintenance_mode"`
	Note              string `json:"maintenance_note"`
	AllowRegistration bool   `json:"allow_registration"`
}

type UpdateUserSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1,dive,keys,required,max=100,endkeys"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
