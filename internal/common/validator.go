package common

import (
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError carries every violated rule of a request, in the order the
// checks ran.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(e.Messages(), "; "))
}

func (e ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		messages = append(messages, fe.String())
	}
	return messages
}

// Has reports whether field failed validation.
func (e ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

type Validator struct {
	Errors []FieldError
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records message for field unless the field already has an error.
func (v *Validator) AddError(field, message string) {
	for _, fe := range v.Errors {
		if fe.Field == field {
			return
		}
	}
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) CheckStringLength(s string, min, max int) bool {
	return len(s) >= min && len(s) <= max
}

// CheckID validates a client supplied identifier.
func (v *Validator) CheckID(id, field string) {
	v.Check(strings.TrimSpace(id) != "", field, "must be provided")
	v.Check(ValidID(strings.TrimSpace(id)), field, "must be a valid identifier")
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}
