package signup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrar struct {
	calls []session.SignUpRequest
	err   error
}

func (r *registrar) SignUp(_ context.Context, req session.SignUpRequest) error {
	r.calls = append(r.calls, req)
	return r.err
}

func validForm() Form {
	return Form{
		FullName:          "Ada Obi",
		Phone:             "08011112222",
		Email:             "ada@example.com",
		BusinessName:      "Ada Stores",
		BusinessType:      "Trader",
		BusinessLocation:  "Lagos",
		Password:          "secret1",
		ConfirmPassword:   "secret1",
		PreferredLanguage: "yo",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Form)
		field  string
		msg    string
	}{
		{"short name", func(f *Form) { f.FullName = "A" }, "full_name", "Full name must be at least 2 characters"},
		{"long name", func(f *Form) { f.FullName = strings.Repeat("a", 101) }, "full_name", "String must contain at most 100 character(s)"},
		{"short phone", func(f *Form) { f.Phone = "0801" }, "phone", "Phone number must be at least 10 digits"},
		{"long phone", func(f *Form) { f.Phone = "0801111222233334" }, "phone", "String must contain at most 15 character(s)"},
		{"bad email", func(f *Form) { f.Email = "ada.example.com" }, "email", "Invalid email address"},
		{"display name email", func(f *Form) { f.Email = "Ada <ada@example.com>" }, "email", "Invalid email address"},
		{"short business", func(f *Form) { f.BusinessName = "A" }, "business_name", "Business name must be at least 2 characters"},
		{"unknown business type", func(f *Form) { f.BusinessType = "Pirate" }, "business_type", "Please select a business type"},
		{"missing business type", func(f *Form) { f.BusinessType = "" }, "business_type", "Please select a business type"},
		{"short location", func(f *Form) { f.BusinessLocation = "L" }, "business_location", "Business location must be at least 2 characters"},
		{"short password", func(f *Form) { f.Password, f.ConfirmPassword = "12345", "12345" }, "password", "Password must be at least 6 characters"},
		{"mismatch", func(f *Form) { f.ConfirmPassword = "secret2" }, "confirm_password", "Passwords don't match"},
		{"bad language", func(f *Form) { f.PreferredLanguage = "fr" }, "preferred_language", "Invalid enum value. Expected 'en' | 'pidgin' | 'ha' | 'yo' | 'ig'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			v := Validate(f)
			assert.Equal(t, Violations{tt.field: tt.msg}, v)
		})
	}
}

func TestValidate_ValidFormAndOptionalLanguage(t *testing.T) {
	assert.True(t, Validate(validForm()).Empty())

	f := validForm()
	f.PreferredLanguage = ""
	assert.True(t, Validate(f).Empty())
}

func TestValidate_EmptyFormReportsEveryField(t *testing.T) {
	v := Validate(Form{})
	for _, field := range []string{"full_name", "phone", "email", "business_name", "business_type", "business_location", "password"} {
		assert.Contains(t, v, field)
	}
	assert.NotContains(t, v, "confirm_password")
	assert.NotContains(t, v, "preferred_language")
}

func TestSubmit_InvalidFormBlocksSignUp(t *testing.T) {
	reg := &registrar{}
	feed := notify.NewFeed(5)
	c := NewController(reg, feed)

	f := validForm()
	f.ConfirmPassword = "nope"
	v, err := c.Submit(context.Background(), f)

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, "Passwords don't match", v["confirm_password"])
	assert.Empty(t, reg.calls)
	n := feed.Drain()
	require.Len(t, n, 1)
	assert.Equal(t, notify.LevelError, n[0].Level)
	assert.Equal(t, "Please fix the errors in the form", n[0].Message)
}

func TestSubmit_PassesFormToRegistrar(t *testing.T) {
	reg := &registrar{}
	feed := notify.NewFeed(5)
	c := NewController(reg, feed)

	v, err := c.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Nil(t, v)
	require.Len(t, reg.calls, 1)
	assert.Equal(t, session.SignUpRequest{
		Email:             "ada@example.com",
		Password:          "secret1",
		FullName:          "Ada Obi",
		Phone:             "08011112222",
		BusinessName:      "Ada Stores",
		BusinessType:      "Trader",
		BusinessLocation:  "Lagos",
		PreferredLanguage: "yo",
	}, reg.calls[0])
	assert.Zero(t, feed.Pending())
}

func TestSubmit_SignUpFailureIsNotified(t *testing.T) {
	feed := notify.NewFeed(5)

	c := NewController(&registrar{err: errors.New("user already registered")}, feed)
	_, err := c.Submit(context.Background(), validForm())
	assert.EqualError(t, err, "user already registered")

	c = NewController(&registrar{err: errors.New("")}, feed)
	_, err = c.Submit(context.Background(), validForm())
	assert.Error(t, err)

	var got []string
	for _, n := range feed.Drain() {
		got = append(got, n.Message)
	}
	assert.Equal(t, []string{"user already registered", "Signup failed"}, got)
}
