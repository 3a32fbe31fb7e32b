package validator

import (
	"testing"

	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openingTime struct {
	Day  string `json:"day" validate:"required,is-day-of-week"`
	Open string `json:"open_time" validate:"omitempty,is-clock-time"`
}

type vendorRequest struct {
	VendorType   string        `json:"vendor_type" validate:"required,is-vendor-type"`
	BusinessName string        `json:"business_name" validate:"required,max=255"`
	Email        string        `json:"email" validate:"omitempty,email"`
	OpeningTimes []openingTime `json:"opening_times" validate:"dive"`
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	err := v.Validate(&vendorRequest{
		VendorType:   "bakery",
		BusinessName: "",
		Email:        "not-an-email",
		OpeningTimes: []openingTime{{Day: "monday", Open: "25:00"}},
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Must be one of: shop, doctor, barber", ve.Errors["vendor_type"])
	assert.Equal(t, "This field is required", ve.Errors["business_name"])
	assert.Equal(t, "Must be a valid email address", ve.Errors["email"])
	assert.Contains(t, ve.Errors, "opening_times[0].day")
	assert.Equal(t, "Must be a time in HH:MM format", ve.Errors["opening_times[0].open_time"])
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(&vendorRequest{
		VendorType:   "shop",
		BusinessName: "Corner Store",
		OpeningTimes: []openingTime{{Day: "mon", Open: "09:30"}},
	})

	assert.NoError(t, err)
}

func TestCheck_ReturnsAppError(t *testing.T) {
	err := New().Check(&vendorRequest{})

	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}
