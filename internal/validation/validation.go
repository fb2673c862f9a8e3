// Package validation checks entity collections where they enter the system.
package validation

import (
	"errors"
	"fmt"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/models"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a validation error
type ValidationError struct {
	Entity  string
	ID      string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Entity, e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Entity, e.Field, e.Message)
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the isodate rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := calendar.ParseDate(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// Student validates a student.
func (v *Validator) Student(s models.Student) error {
	return v.check("student", s.ID, s)
}

// Teacher validates a teacher.
func (v *Validator) Teacher(t models.Teacher) error {
	return v.check("teacher", t.ID, t)
}

// ClassRoom validates a class.
func (v *Validator) ClassRoom(c models.ClassRoom) error {
	return v.check("class", c.ID, c)
}

// AttendanceRecord validates a record, including the non-negative offering
// rule the struct tags cannot express.
func (v *Validator) AttendanceRecord(r models.AttendanceRecord) error {
	if err := v.check("attendance", r.Key(), r); err != nil {
		return err
	}
	if r.OfferingValue.IsNegative() {
		return ValidationError{Entity: "attendance", ID: r.Key(), Field: "offeringValue", Message: "must not be negative"}
	}
	return nil
}

// CanonicalRecord validates r and returns it with Date reduced to its
// YYYY-MM-DD form, the form records are keyed and stored by.
func (v *Validator) CanonicalRecord(r models.AttendanceRecord) (models.AttendanceRecord, error) {
	if err := v.AttendanceRecord(r); err != nil {
		return r, err
	}
	d, err := calendar.ParseDate(r.Date)
	if err != nil {
		return r, ValidationError{Entity: "attendance", ID: r.Key(), Field: "Date", Message: "must be a YYYY-MM-DD date"}
	}
	r.Date = d.String()
	return r, nil
}

func (v *Validator) check(entity, id string, value any) error {
	err := v.v.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ValidationError{Entity: entity, ID: id, Field: fe.Field(), Message: describe(fe)}
	}
	return fmt.Errorf("failed to validate %s: %w", entity, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isodate":
		return "must be a YYYY-MM-DD date"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "unique":
		return "must not contain duplicates"
	}
	return "failed " + fe.Tag() + " check"
}
