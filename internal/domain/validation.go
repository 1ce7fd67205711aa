package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgvalidator "coachdash/pkg/validator"
)

// FieldErrors maps a JSON path to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Merge(other FieldErrors) FieldErrors {
	if f == nil {
		f = FieldErrors{}
	}
	for k, v := range other {
		f[k] = v
	}
	return f
}

func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "timeslot", func(fl validator.FieldLevel) bool {
		return pkgvalidator.ValidateTimeSlot(fl.Field().String())
	})
	mustRegister(v, "password_policy", func(fl validator.FieldLevel) bool {
		return pkgvalidator.ValidatePassword(fl.Field().String())
	})
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		return Weekday(fl.Field().String()).IsValid()
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return pkgvalidator.ValidatePhone(fl.Field().String())
	})
	mustRegister(v, "otp", func(fl validator.FieldLevel) bool {
		return pkgvalidator.ValidateOTP(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateStruct runs the struct tags of s and returns every failure.
func ValidateStruct(s interface{}) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe.Namespace())] = message(fe)
	}
	return out
}

func ValidateBasic(b BasicIdentity) FieldErrors {
	return ValidateStruct(b)
}

func ValidateProfessional(p ProfessionalProfile) FieldErrors {
	return ValidateStruct(p)
}

// ValidateDraft is the gate before submission.
func ValidateDraft(d *RegistrationDraft) FieldErrors {
	var errs FieldErrors
	if d.Basic == nil {
		errs = errs.Merge(FieldErrors{"basic": "Basic information is required"})
	} else {
		errs = errs.Merge(ValidateBasic(*d.Basic))
	}
	return errs.Merge(ValidateProfessional(d.Professional))
}

// fieldPath drops the root struct name: "ProfessionalProfile.availability[0].slots[1].startTime"
// becomes "availability[0].slots[1].startTime".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Bool {
			return "You must agree to the terms and conditions"
		}
		return "This field is required"
	case "email":
		return "Invalid email address"
	case "eqfield":
		return "Passwords do not match"
	case "password_policy":
		return "Password must be at least 8 characters and contain an upper-case letter, a lower-case letter and a number"
	case "timeslot":
		return "Time must be in hh:mm AM/PM format"
	case "weekday":
		return "Day must be a weekday name (Monday to Sunday)"
	case "otp":
		return "Code must be 6 digits"
	case "phone":
		return "Invalid phone number"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "Date must be in YYYY-MM-DD format"
	case "url":
		return "Must be a valid URL"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At least %s entry required", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At most %s entries allowed", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	default:
		return "Invalid value"
	}
}
