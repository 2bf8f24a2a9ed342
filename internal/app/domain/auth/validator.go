package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterForm is the registration form. Validation runs before any
// backend call.
type RegisterForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
	PhoneNumber     string `form:"phonenumber" validate:"required"`
	Address         string `form:"address" validate:"required"`
}

func (f *RegisterForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.Address = strings.TrimSpace(f.Address)
}

// values echoes the non-secret inputs back into the form.
func (f RegisterForm) values() map[string]string {
	return map[string]string{
		"name":        f.Name,
		"email":       f.Email,
		"phonenumber": f.PhoneNumber,
		"address":     f.Address,
	}
}

var fieldMessages = map[string]string{
	"name.required":            "Name is required",
	"email.required":           "Email is required",
	"email.email":              "Email is invalid",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 6 characters",
	"confirmPassword.required": "Confirm Password is required",
	"confirmPassword.eqfield":  "Passwords do not match",
	"phonenumber.required":     "Phone number is required",
	"address.required":         "Address is required",
}

// formValidator reports validation failures keyed by form field name.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &formValidator{v: v}
}

// Validate returns nil when s is valid, otherwise one message per field.
func (fv *formValidator) Validate(s any) (map[string]string, error) {
	err := fv.v.Struct(s)
	if err == nil {
		return nil, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldError(fe)
	}
	return out, nil
}

func fieldError(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
