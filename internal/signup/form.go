package signup

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	BusinessTypes = []string{"Trader", "Shop Owner", "Service Provider", "Farmer", "Other"}
	Languages     = []string{"en", "pidgin", "ha", "yo", "ig"}
)

// Form is the registration input as the UI posts it.
type Form struct {
	FullName          string `json:"full_name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	BusinessName      string `json:"business_name"`
	BusinessType      string `json:"business_type"`
	BusinessLocation  string `json:"business_location"`
	Password          string `json:"password"`
	ConfirmPassword   string `json:"confirm_password"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
}

// Violations maps a form field to its error message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func length(field, value string, min, max int, tooShort string, v Violations) {
	n := utf8.RuneCountInString(value)
	if n < min {
		v.add(field, tooShort)
	} else if n > max {
		v.add(field, fmt.Sprintf("String must contain at most %d character(s)", max))
	}
}

// Validate checks f against the signup schema and returns one message
// per invalid field.
func Validate(f Form) Violations {
	v := Violations{}

	length("full_name", f.FullName, 2, 100, "Full name must be at least 2 characters", v)
	length("phone", f.Phone, 10, 15, "Phone number must be at least 10 digits", v)
	if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		v.add("email", "Invalid email address")
	}
	length("business_name", f.BusinessName, 2, 100, "Business name must be at least 2 characters", v)
	if !slices.Contains(BusinessTypes, f.BusinessType) {
		v.add("business_type", "Please select a business type")
	}
	length("business_location", f.BusinessLocation, 2, 100, "Business location must be at least 2 characters", v)
	if utf8.RuneCountInString(f.Password) < 6 {
		v.add("password", "Password must be at least 6 characters")
	}
	if f.Password != f.ConfirmPassword {
		v.add("confirm_password", "Passwords don't match")
	}
	if f.PreferredLanguage != "" && !slices.Contains(Languages, f.PreferredLanguage) {
		v.add("preferred_language", "Invalid enum value. Expected "+quoteAll(Languages))
	}
	return v
}

func quoteAll(vals []string) string {
	q := make([]string, len(vals))
	for i, s := range vals {
		q[i] = "'" + s + "'"
	}
	return strings.Join(q, " | ")
}
