package validator

import (
	"log"
	"regexp"

	"github.com/fahadjdy/business-point/internal/models"

	"github.com/go-playground/validator/v10"
)

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var ruleMessages = map[string]string{
	"is-vendor-type":         "Must be one of: shop, doctor, barber",
	"is-verification-status": "Must be one of: pending, approved, rejected",
	"is-tag-category":        "Must be one of: profession, skill, business, service",
	"is-contact-type":        "Must be one of: person, business, service",
	"is-number-type":         "Must be one of: primary, secondary, whatsapp, landline",
	"is-setting-type":        "Must be one of: string, boolean, number, json",
	"is-day-of-week":         "Must be one of: mon, tue, wed, thu, fri, sat, sun",
	"is-priority":            "Must be one of: low, normal, high",
	"is-clock-time":          "Must be a time in HH:MM format",
}

// registerCustomRules регистрирует правила для перечислений из models
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-vendor-type", enumRule(func(s string) bool { return models.VendorType(s).Valid() }))
	mustRegister("is-verification-status", enumRule(func(s string) bool { return models.VerificationStatus(s).Valid() }))
	mustRegister("is-tag-category", enumRule(func(s string) bool { return models.TagCategory(s).Valid() }))
	mustRegister("is-contact-type", enumRule(func(s string) bool { return models.ContactType(s).Valid() }))
	mustRegister("is-number-type", enumRule(func(s string) bool { return models.NumberType(s).Valid() }))
	mustRegister("is-setting-type", enumRule(func(s string) bool { return models.SettingType(s).Valid() }))
	mustRegister("is-day-of-week", enumRule(func(s string) bool { return models.DayOfWeek(s).Valid() }))
	mustRegister("is-priority", enumRule(func(s string) bool { return models.Priority(s).Valid() }))
	mustRegister("is-clock-time", enumRule(clockTime.MatchString))
}

// enumRule - пустые значения пропускаются, для них есть 'required'
func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
