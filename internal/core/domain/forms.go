package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Credentials is the login form.
type Credentials struct {
	Email      string `json:"email" validate:"required,address"`
	Password   string `json:"password" validate:"required"`
	AdminToken string `json:"admin_token,omitempty"`
}

// Registration is the sign-up form.
type Registration struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,address"`
	Password   string `json:"password" validate:"required,min=6"`
	AdminToken string `json:"admin_token,omitempty"`
}

// ProfileUpdate is the profile edit form. A password change needs both fields.
type ProfileUpdate struct {
	Name        string `json:"name" validate:"required,min=2"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty" validate:"omitempty,min=6"`
}

// Validate checks the login form. Admin logins also need the admin token.
func (c Credentials) Validate(admin bool) error {
	if err := check(c); err != nil {
		return err
	}
	if admin && strings.TrimSpace(c.AdminToken) == "" {
		return ErrValidation.WithDetails("Admin token is required for admin access")
	}
	return nil
}

// Validate checks the registration form. Admin registrations also need the admin token.
func (r Registration) Validate(admin bool) error {
	if err := check(r); err != nil {
		return err
	}
	if admin && strings.TrimSpace(r.AdminToken) == "" {
		return ErrValidation.WithDetails("Admin token is required for admin access")
	}
	return nil
}

// Validate checks the profile form.
func (p ProfileUpdate) Validate() error {
	if err := check(p); err != nil {
		return err
	}
	if (p.OldPassword == "") != (p.NewPassword == "") {
		return ErrValidation.WithDetails("Both current and new password are required to change password")
	}
	return nil
}

// Payload returns the body sent to the backend, dropping an incomplete password change.
func (p ProfileUpdate) Payload() map[string]string {
	body := map[string]string{"name": p.Name}
	if p.OldPassword != "" && p.NewPassword != "" {
		body["old_password"] = p.OldPassword
		body["new_password"] = p.NewPassword
	}
	return body
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ErrValidation.WithCause(err)
	}
	return ErrValidation.WithDetails(fieldMessage(verrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label(field))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label(field), fe.Param())
	case "address":
		return "Invalid email address"
	default:
		return fmt.Sprintf("%s is invalid", label(field))
	}
}

func label(field string) string {
	switch field {
	case "name":
		return "Name"
	case "email":
		return "Email"
	case "password":
		return "Password"
	case "new_password":
		return "New password"
	default:
		return field
	}
}
