// Package signup validates the registration form and hands valid input
// to the session provider.
package signup

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/session"
)

var ErrInvalidForm = errors.New("invalid signup form")

const (
	msgFixErrors = "Please fix the errors in the form"
	msgFailed    = "Signup failed"
)

// Registrar performs the sign-up. *session.Provider implements it.
type Registrar interface {
	SignUp(ctx context.Context, req session.SignUpRequest) error
}

type Controller struct {
	registrar Registrar
	notifier  notify.Notifier
}

func NewController(r Registrar, n notify.Notifier) *Controller {
	return &Controller{registrar: r, notifier: n}
}

// Submit validates f and, when it is valid, signs up. Invalid input
// never reaches the registrar.
func (c *Controller) Submit(ctx context.Context, f Form) (Violations, error) {
	if v := Validate(f); !v.Empty() {
		c.notifier.Error(msgFixErrors)
		return v, ErrInvalidForm
	}

	err := c.registrar.SignUp(ctx, session.SignUpRequest{
		Email:             f.Email,
		Password:          f.Password,
		FullName:          f.FullName,
		Phone:             f.Phone,
		BusinessName:      f.BusinessName,
		BusinessType:      f.BusinessType,
		BusinessLocation:  f.BusinessLocation,
		PreferredLanguage: f.PreferredLanguage,
	})
	if err != nil {
		c.notifier.Error(notify.Message(err, msgFailed))
		return nil, err
	}
	return nil, nil
}
