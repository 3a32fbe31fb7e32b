package auth

import (
	"fmt"

	"github.com/fahadjdy/business-point/internal/models"
)

// Роли токена совпадают с models.UserRole
const (
	RoleAdmin  = string(models.UserRoleAdmin)
	RoleVendor = string(models.UserRoleVendor)
	RoleUser   = string(models.UserRoleUser)
)

// TokenRole - роль в токене. Профиль администратора важнее роли учетной записи.
func TokenRole(role models.UserRole, hasAdminProfile bool) string {
	if hasAdminProfile {
		return RoleAdmin
	}
	return string(role)
}

func IsAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == RoleAdmin
}

func ValidateRole(role string) error {
	switch role {
	case RoleAdmin, RoleVendor, RoleUser:
		return nil
	default:
		return fmt.Errorf("invalid role %q", role)
	}
}
