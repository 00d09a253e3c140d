package booking

import (
	"fmt"
	"strings"
)

// Kind categorises the outcome of Validate.
type Kind int

const (
	Valid Kind = iota
	MissingRequiredFields
	IncompletePatientInfo
)

func (k Kind) String() string {
	switch k {
	case Valid:
		return "valid"
	case MissingRequiredFields:
		return "missing_required_fields"
	case IncompletePatientInfo:
		return "incomplete_patient_info"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of Validate. Message is suitable for showing to the
// person filling in the form.
type Result struct {
	Kind    Kind
	Message string
}

// OK reports whether the request may be submitted.
func (r Result) OK() bool { return r.Kind == Valid }

// Title is the heading shown above Message in a blocking notice.
func (r Result) Title() string {
	switch r.Kind {
	case MissingRequiredFields:
		return "Missing Required Fields"
	case IncompletePatientInfo:
		return "Patient Information Required"
	default:
		return ""
	}
}

// Err converts a failed result into a *ValidationError, or nil when valid.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Kind: r.Kind, Message: r.Message}
}

// ValidationError carries a failed Result through error returns.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches the package sentinels for the error's kind.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case MissingRequiredFields:
		return target == ErrMissingRequiredFields
	case IncompletePatientInfo:
		return target == ErrIncompletePatientInfo
	}
	return false
}

const (
	missingRequiredMessage   = "Please fill in all required fields and accept the terms and conditions."
	incompletePatientMessage = "Please provide complete patient information when booking for someone else."
)

// Validate checks that r can be submitted. Rules run in a fixed order and the
// first failing group decides the result; date ranges are enforced when the
// dates are picked, not here.
func Validate(r Request) Result {
	if !hasRequiredFields(r) {
		return Result{Kind: MissingRequiredFields, Message: missingRequiredMessage}
	}
	if !r.IsForSelf && !hasPatientFields(r) {
		return Result{Kind: IncompletePatientInfo, Message: incompletePatientMessage}
	}
	return Result{Kind: Valid}
}

func hasRequiredFields(r Request) bool {
	return present(r.FullName) &&
		!r.DateOfBirth.IsZero() &&
		present(r.PhoneNumber) &&
		present(r.EmailAddress) &&
		present(string(r.Service)) &&
		!r.PreferredDate.IsZero() &&
		present(string(r.PreferredTime)) &&
		r.AgreeToTerms
}

func hasPatientFields(r Request) bool {
	return present(r.PatientName) &&
		present(r.PatientAge) &&
		present(r.RelationshipToPatient)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
