package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Home Delivery":       "home-delivery",
		"  Home   Delivery  ": "home-delivery",
		"24x7 Service":        "24x7-service",
		"Café Noir":           "cafe-noir",
		"Plumbing & Heating":  "plumbing-heating",
		"already-a-slug":      "already-a-slug",
		"Snake_case_Name":     "snake-case-name",
		"":                    "",
		"!!!":                 "",
		"mail@home":           "mail-home",
	}

	for in, want := range cases {
		assert.Equal(t, want, Make(in), "input %q", in)
	}
}
