package models

type UserRole string
type VendorType string
type VerificationStatus string
type VendorStatus string
type TagCategory string
type ContactType string
type NumberType string
type SettingType string
type DayOfWeek string
type Priority string
type ActorType string
type AuditAction string
type AuditStatus string

const (
	UserRoleUser   UserRole = "user"
	UserRoleVendor UserRole = "vendor"
	UserRoleAdmin  UserRole = "admin"

	VendorTypeShop   VendorType = "shop"
	VendorTypeDoctor VendorType = "doctor"
	VendorTypeBarber VendorType = "barber"

	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"

	VendorStatusActive    VendorStatus = "active"
	VendorStatusSuspended VendorStatus = "suspended"
	VendorStatusBlocked   VendorStatus = "blocked"

	TagCategoryProfession TagCategory = "profession"
	TagCategorySkill      TagCategory = "skill"
	TagCategoryBusiness   TagCategory = "business"
	TagCategoryService    TagCategory = "service"

	ContactTypePerson   ContactType = "person"
	ContactTypeBusiness ContactType = "business"
	ContactTypeService  ContactType = "service"

	NumberTypePrimary   NumberType = "primary"
	NumberTypeSecondary NumberType = "secondary"
	NumberTypeWhatsapp  NumberType = "whatsapp"
	NumberTypeLandline  NumberType = "landline"

	SettingTypeString  SettingType = "string"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeNumber  SettingType = "number"
	SettingTypeJSON    SettingType = "json"

	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"

	ActorTypeAdmin  ActorType = "admin"
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"

	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionDelete     AuditAction = "delete"
	AuditActionRestore    AuditAction = "restore"
	AuditActionView       AuditAction = "view"
	AuditActionSearch     AuditAction = "search"
	AuditActionLogin      AuditAction = "login"
	AuditActionLogout     AuditAction = "logout"
	AuditActionApprove    AuditAction = "approve"
	AuditActionReject     AuditAction = "reject"
	AuditActionBulkUpdate AuditAction = "bulk_update"
	AuditActionBulkDelete AuditAction = "bulk_delete"

	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

var DaysOfWeek = []DayOfWeek{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func (t VendorType) Valid() bool {
	switch t {
	case VendorTypeShop, VendorTypeDoctor, VendorTypeBarber:
		return true
	}
	return false
}

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

func (c TagCategory) Valid() bool {
	switch c {
	case TagCategoryProfession, TagCategorySkill, TagCategoryBusiness, TagCategoryService:
		return true
	}
	return false
}

func (t ContactType) Valid() bool {
	switch t {
	case ContactTypePerson, ContactTypeBusiness, ContactTypeService:
		return true
	}
	return false
}

func (t NumberType) Valid() bool {
	switch t {
	case NumberTypePrimary, NumberTypeSecondary, NumberTypeWhatsapp, NumberTypeLandline:
		return true
	}
	return false
}

func (t SettingType) Valid() bool {
	switch t {
	case SettingTypeString, SettingTypeBoolean, SettingTypeNumber, SettingTypeJSON:
		return true
	}
	return false
}

func (d DayOfWeek) Valid() bool {
	for _, day := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}
